package main

import (
	"log"
	"os"

	"ai-helpdesk-be/internal/constant"
	"ai-helpdesk-be/internal/model"
	"ai-helpdesk-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Seeds demo employee records and starter documents so a fresh install has
// something to retrieve against. Idempotent: conflicts are skipped.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	seedEmployeeRecords(db)
	seedDocuments(db)

	log.Println("✅ Success: Seed completed.")
}

func seedEmployeeRecords(db *gorm.DB) {
	records := []model.EmployeeRecord{
		{
			RecordKey: "alice johnson",
			Scope:     constant.ScopeHR,
			Fields: datatypes.JSONMap{
				"name":               "Alice Johnson",
				"department":         "engineering",
				"salary":             98000,
				"leave_balance":      12,
				"leaves_taken":       8,
				"attendance_pct":     96.5,
				"performance_rating": 4.4,
			},
		},
		{
			RecordKey: "bob smith",
			Scope:     constant.ScopeHR,
			Fields: datatypes.JSONMap{
				"name":               "Bob Smith",
				"department":         "finance",
				"salary":             87000,
				"leave_balance":      5,
				"leaves_taken":       15,
				"attendance_pct":     91.0,
				"performance_rating": 3.8,
			},
		},
		{
			RecordKey: "carol diaz",
			Scope:     constant.ScopeHR,
			Fields: datatypes.JSONMap{
				"name":               "Carol Diaz",
				"department":         "marketing",
				"salary":             79000,
				"leave_balance":      18,
				"leaves_taken":       2,
				"attendance_pct":     99.1,
				"performance_rating": 4.9,
			},
		},
	}

	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&records)
	if res.Error != nil {
		log.Printf("Warn: Failed to seed employee records: %v", res.Error)
		return
	}
	log.Printf("Seeded employee records (%d new)", res.RowsAffected)
}

func seedDocuments(db *gorm.DB) {
	documents := []model.Document{
		{
			Title:   "Employee Handbook",
			Scope:   constant.ScopeGeneral,
			Content: "Working hours are 9am to 6pm, Monday through Friday. Employees accrue 1.5 leave days per month. Remote work requires manager approval.",
		},
		{
			Title:   "Expense Reimbursement Policy",
			Scope:   constant.ScopeFinance,
			Content: "Expenses above $500 require pre-approval from the finance team. Receipts must be submitted within 30 days. Per-diem for travel is $60 per day.",
		},
		{
			Title:   "Brand Guidelines",
			Scope:   constant.ScopeMarketing,
			Content: "The primary brand color is #1A73E8. Logos must keep a clear margin of at least half the logo height. Campaign copy goes through legal review.",
		},
		{
			Title:   "On-Call Runbook",
			Scope:   constant.ScopeEngineering,
			Content: "Sev-1 incidents page the on-call engineer immediately. Escalate to the secondary after 15 minutes without acknowledgement. Postmortems are due within 5 working days.",
		},
	}

	// Seeded documents still need the indexing pipeline; they are inserted
	// unindexed and picked up on next upload or manual re-index.
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&documents)
	if res.Error != nil {
		log.Printf("Warn: Failed to seed documents: %v", res.Error)
		return
	}
	log.Printf("Seeded documents (%d new)", res.RowsAffected)
}
