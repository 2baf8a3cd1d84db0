package main

import (
	"bufio"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/railbook/internal/catalog"
	"github.com/yourorg/railbook/internal/config"
	appdb "github.com/yourorg/railbook/internal/db"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Railbook CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed database (create sample user)")
		fmt.Println("3) Inspect station catalog")
		fmt.Println("4) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			doInspectCatalog(reader)
		case "4":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/health"
	resp, err := http.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func doSeed() {
	cfg := config.Load()
	db, err := appdb.Connect(cfg)
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()
	if err := appdb.EnsureSchema(db); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Println("bcrypt error:", err)
		return
	}
	_, err = db.Exec(`
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE username = username
	`, "demo", "demo@example.com", string(hash))
	if err != nil {
		log.Println("seed insert error:", err)
		return
	}
	fmt.Println("Sample user ready: demo@example.com / demo1234")
}

func doInspectCatalog(reader *bufio.Reader) {
	cfg := config.Load()
	cat := catalog.Load(cfg.StationsFile)
	fmt.Printf("Catalog: %d stations (%s)\n", cat.Len(), cfg.StationsFile)
	if cat.Len() == 0 {
		return
	}

	fmt.Print("Search query (empty for first page of all): ")
	query, _ := reader.ReadString('\n')
	query = strings.TrimSpace(query)

	res := cat.Search(query, 1, 10)
	fmt.Printf("Total matches: %d (showing up to %d)\n", res.Total, res.Limit)
	for _, s := range res.Items {
		fmt.Printf("  %-40s %s\n", s.Name, s.Code)
	}
}
