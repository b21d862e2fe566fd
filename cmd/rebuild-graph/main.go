package main

import (
	"context"
	"log"
	"time"

	"github.com/passbi/passbi_core/internal/db"
	"github.com/passbi/passbi_core/internal/graph"
)

// This tool warms and validates the stochastic graph against whatever data is
// currently in the database. It does not write anything back: the stochastic
// core builds its graph in memory on every load, there is no persisted
// node/edge table to rebuild.
func main() {
	log.Println("🔄 PassBi Core - Stochastic Graph Validation Tool")
	log.Println("===================================")

	log.Println("📡 Connecting to database...")
	dbPool, err := db.GetDB()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	ctx := context.Background()

	var stopCount, routeCount, tripCount int
	if err := dbPool.QueryRow(ctx, "SELECT COUNT(*) FROM stop").Scan(&stopCount); err != nil {
		log.Fatalf("❌ Failed to count stops: %v", err)
	}
	if err := dbPool.QueryRow(ctx, "SELECT COUNT(*) FROM route").Scan(&routeCount); err != nil {
		log.Fatalf("❌ Failed to count routes: %v", err)
	}
	if err := dbPool.QueryRow(ctx, "SELECT COUNT(*) FROM trip").Scan(&tripCount); err != nil {
		log.Fatalf("❌ Failed to count trips: %v", err)
	}

	log.Printf("📊 Database statistics:")
	log.Printf("   Stops: %d", stopCount)
	log.Printf("   Routes: %d", routeCount)
	log.Printf("   Trips: %d", tripCount)

	if stopCount == 0 || routeCount == 0 || tripCount == 0 {
		log.Fatalf("❌ No data found in database. Import GTFS data first!")
	}

	log.Println("🔄 Loading stochastic graph...")
	startTime := time.Now()

	g, err := graph.LoadStochasticFromDB(ctx, dbPool)
	if err != nil {
		log.Fatalf("❌ Failed to load stochastic graph: %v", err)
	}

	duration := time.Since(startTime)

	log.Println("✅ Stochastic graph loaded!")
	log.Printf("⏱️  Duration: %v", duration)
	log.Printf("📊 Graph statistics:")
	log.Printf("   Stops: %d", g.StopCount())

	coverage := float64(g.StopCount()) / float64(stopCount) * 100
	log.Printf("   Stop coverage: %d/%d (%.1f%%)", g.StopCount(), stopCount, coverage)

	log.Println("🚀 Stochastic graph is ready for routing!")
}
