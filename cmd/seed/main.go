package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-cityreport/internal/backend"
	"go-cityreport/internal/config"
)

type seedReport struct {
	UserID      string `json:"user_id"`
	ReportType  string `json:"report_type"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	userID := os.Getenv("SEED_USER_ID")
	if userID == "" {
		log.Fatal("SEED_USER_ID is required (an existing auth user id)")
	}

	client := backend.NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("🌱 Seeding demo reports...")

	reports := []seedReport{
		{
			ReportType:  "Road Issues",
			Description: "Large pothole on J.C. Aquino Avenue",
			Location:    "J.C. Aquino Avenue",
			Latitude:    "8.935142", Longitude: "125.508743",
			Priority: "High", Status: "In Progress",
		},
		{
			ReportType:  "Infrastructure",
			Description: "Broken water pipe affecting Langihan Road",
			Location:    "Langihan Road",
			Latitude:    "8.921547", Longitude: "125.495832",
			Priority: "Critical", Status: "Pending",
		},
		{
			ReportType:  "Road Issues",
			Description: "Damaged road sign near Butuan National High School",
			Location:    "Butuan National High School",
			Latitude:    "8.940823", Longitude: "125.517429",
			Priority: "Medium", Status: "Resolved",
		},
		{
			ReportType:  "Infrastructure",
			Description: "Cracked pavement on Montilla Boulevard",
			Location:    "Montilla Boulevard",
			Latitude:    "8.915632", Longitude: "125.489157",
			Priority: "Low", Status: "Pending",
		},
		{
			ReportType:  "Road Issues",
			Description: "Traffic light malfunction at Rizal Street intersection",
			Location:    "Rizal Street",
			Latitude:    "8.933821", Longitude: "125.512638",
			Priority: "High", Status: "In Progress",
		},
		{
			ReportType:  "Infrastructure",
			Description: "Broken streetlight on P. Burgos Street",
			Location:    "P. Burgos Street",
			Latitude:    "8.922385", Longitude: "125.498745",
			Priority: "Medium", Status: "Resolved",
		},
	}

	for i := range reports {
		reports[i].UserID = userID
	}

	if err := client.Insert(ctx, "reports", reports); err != nil {
		log.Fatalf("Failed to seed reports: %v", err)
	}

	fmt.Printf("✅ Seeded %d demo reports\n", len(reports))
}
