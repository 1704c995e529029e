package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/storefront"
	"github.com/jafarshop/storefront/internal/variant"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/find-variety/main.go <product-slug> [property-value-id...] [color=<name>]")
		fmt.Println("Example: go run cmd/find-variety/main.go linen-shirt 11 color=مشکی")
		os.Exit(1)
	}

	slug := os.Args[1]

	var sel variant.Selection
	for _, arg := range os.Args[2:] {
		if name, ok := strings.CutPrefix(arg, "color="); ok {
			sel.Color = name
			continue
		}
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid property value id %q\n", arg)
			os.Exit(1)
		}
		sel.ChildIDs = append(sel.ChildIDs, id)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := storefront.NewClient(cfg.Backend, logger)

	product, err := client.Product(context.Background(), slug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch product: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Product: %s (id %d, %d varieties)\n\n", product.Title, product.ID, len(product.Varieties))

	opts := variant.ListOptions(product.Varieties)
	for _, g := range opts.Groups {
		fmt.Printf("%s:\n", g.Name)
		for _, v := range g.Values {
			fmt.Printf("  %d  %s\n", v.ID, v.Name)
		}
	}
	if len(opts.Colors) > 0 {
		fmt.Printf("Colors:\n")
		for _, c := range opts.Colors {
			fmt.Printf("  color=%s\n", c.FaName)
		}
	}

	if len(sel.ChildIDs) == 0 && sel.Color == "" {
		return
	}

	v, err := variant.Resolve(product.Varieties, sel)
	if err != nil {
		fmt.Printf("\nNo single variety: %v\n", err)
		for _, c := range variant.Candidates(product.Varieties, sel) {
			fmt.Printf("  candidate %d (stock %d)\n", c.ID, c.StoreStock)
		}
		os.Exit(1)
	}

	item := variant.CartItem(*product, v, 1)
	fmt.Printf("\nVariety ID: %d\n", v.ID)
	fmt.Printf("Price: %d toman\n", v.PriceMain)
	fmt.Printf("Stock: %d\n", v.StoreStock)
	fmt.Printf("Size: %s\n", item.Size)
	fmt.Printf("Color: %s\n", item.Color)
}
