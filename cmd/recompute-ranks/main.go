package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// Maintenance tool: rebuilds stored ranks for every contest directly
// against the database, one transaction per contest. Safe to run while
// the API is serving traffic.

const recomputeSQL = `
WITH ranked AS (
    SELECT id, ROW_NUMBER() OVER (ORDER BY score DESC, id ASC) AS calculated_rank
    FROM leaderboard_entries
    WHERE contest_id = $1
)
UPDATE leaderboard_entries e
SET rank = r.calculated_rank, updated_at = NOW()
FROM ranked r
WHERE e.id = r.id AND e.contest_id = $1`

func main() {
	dsn := flag.String("dsn", os.Getenv("DATABASE_DSN"), "PostgreSQL connection string")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("Database DSN is required (-dsn flag or DATABASE_DSN env var)")
	}

	db, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	rows, err := db.Query("SELECT id FROM contests ORDER BY id ASC")
	if err != nil {
		log.Fatalf("Failed to list contests: %v", err)
	}
	var contestIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			log.Fatalf("Failed to scan contest id: %v", err)
		}
		contestIDs = append(contestIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed to iterate contests: %v", err)
	}

	fmt.Printf("Recomputing ranks for %d contests...\n", len(contestIDs))

	failed := 0
	for _, contestID := range contestIDs {
		if err := recomputeContest(db, contestID); err != nil {
			failed++
			fmt.Printf("contest %d: FAILED: %v\n", contestID, err)
			continue
		}
		fmt.Printf("contest %d: ok\n", contestID)
	}

	if failed > 0 {
		log.Fatalf("Done with %d failures out of %d contests", failed, len(contestIDs))
	}
	fmt.Println("Done.")
}

func recomputeContest(db *sql.DB, contestID int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(recomputeSQL, contestID); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
