package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/gyorilab/indra-cogex/pkg/analysis"
	"github.com/gyorilab/indra-cogex/pkg/graph"
	"github.com/gyorilab/indra-cogex/pkg/ingest"
	"github.com/gyorilab/indra-cogex/pkg/mcp"
	"github.com/gyorilab/indra-cogex/pkg/server"
)

func main() {
	// Define flags
	ingestMode := flag.Bool("ingest", false, "run in ingestion mode (requires node and edge dump arguments)")
	serverMode := flag.Bool("server", false, "run REST API server")
	mcpMode := flag.Bool("mcp", false, "run MCP server on stdio")
	stylesFlag := flag.String("styles", "", "path to a YAML namespace style table")
	lowMemMode := flag.Bool("low-mem", false, "optimize for low-memory environments")

	flag.Parse() // Parse flags early

	_ = godotenv.Load()

	// Defaults
	dataDir := "./data"
	args := flag.Args()

	var nodePath, edgePath string
	if *ingestMode {
		if len(args) != 3 {
			fmt.Println("Error: --ingest requires exactly three arguments: <nodes.tsv.gz> <edges.tsv.gz> <data_folder>")
			fmt.Println("Usage: main --ingest <nodes.tsv.gz> <edges.tsv.gz> <data_folder>")
			os.Exit(1)
		}
		nodePath = args[0]
		edgePath = args[1]
		dataDir = args[2]
	} else if len(args) >= 1 {
		dataDir = args[0]
	}

	cfg := graph.DefaultConfig(dataDir)
	if *ingestMode {
		cfg.Profile = "Ingest-Heavy"
	}
	if *lowMemMode {
		cfg.BlockCacheSize = 128 << 20 // 128 MB
		cfg.IndexCacheSize = 64 << 20  // 64 MB
		fmt.Println("Running in LOW MEMORY mode")
	}
	if !*ingestMode {
		cfg.ReadOnly = true
		cfg.BypassLockGuard = true
		fmt.Printf("Running in READ-ONLY mode. Data directory: %s\n", dataDir)
	}

	store, err := graph.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open graph store: %v", err)
	}
	defer store.Close()

	if *ingestMode {
		fmt.Printf("Running in INGESTION mode.\nNodes: %s\nEdges: %s\nData: %s\n", nodePath, edgePath, dataDir)
		loader := ingest.NewLoader(store)
		if _, err := loader.Load(nodePath, edgePath); err != nil {
			log.Fatalf("Ingestion failed: %v", err)
		}
		return
	}

	service := analysis.NewService(store)

	if *mcpMode {
		if err := mcp.Run(context.Background(), service); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
		return
	}

	if *serverMode {
		styles := server.DefaultStyles()
		if *stylesFlag != "" {
			styles, err = server.LoadStyles(*stylesFlag)
			if err != nil {
				log.Fatalf("Failed to load style table: %v", err)
			}
		}

		srv := server.NewServer(service, styles)
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		addr := ":" + port
		fmt.Printf("Starting REST API Server on %s\n", addr)
		if err := srv.Run(addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
		return
	}

	flag.Usage()
}
