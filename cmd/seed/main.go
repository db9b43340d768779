package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Expected sheet layout (first row is the header):
//
//	collection | title | description | unit_price | inventory
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	collectionRepo := repository.NewCollectionRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readCatalogRows(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(rows))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	// Collections are created on first mention and reused for every
	// product that names them.
	collectionIDs := make(map[string]uint)
	existing, err := collectionRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to list collections:", err)
	}
	for _, c := range existing {
		collectionIDs[c.Title] = c.ID
	}

	products := make([]model.Product, 0, len(rows))
	slugCounter := make(map[string]int)

	for _, row := range rows {
		var collectionID *uint
		if row.Collection != "" {
			id, ok := collectionIDs[row.Collection]
			if !ok {
				collection := model.Collection{Title: row.Collection}
				if err := collectionRepo.Create(&collection); err != nil {
					log.Fatal("Failed to create collection:", err)
				}
				collectionIDs[row.Collection] = collection.ID
				id = collection.ID
			}
			collectionID = &id
		}

		slug := slugify(row.Title)
		slugCounter[slug]++
		if n := slugCounter[slug]; n > 1 {
			slug = fmt.Sprintf("%s-%d", slug, n)
		}

		products = append(products, model.Product{
			Title:        row.Title,
			Slug:         slug,
			Description:  row.Description,
			UnitPrice:    row.UnitPrice,
			Inventory:    row.Inventory,
			CollectionID: collectionID,
		})
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Collections: %d, products imported: %d\n", len(collectionIDs), len(products))
}

type catalogRow struct {
	Collection  string
	Title       string
	Description string
	UnitPrice   float64
	Inventory   int
}

func readCatalogRows(filePath string) ([]catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var result []catalogRow
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		title := strings.TrimSpace(row[1])
		if title == "" {
			skippedCount++
			continue
		}

		unitPrice, err := strconv.ParseFloat(strings.TrimSpace(row[3]), 64)
		if err != nil || unitPrice <= 0 {
			skippedCount++
			continue
		}

		inventory := 0
		if len(row) > 4 {
			if n, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil && n >= 0 {
				inventory = n
			}
		}

		result = append(result, catalogRow{
			Collection:  strings.TrimSpace(row[0]),
			Title:       title,
			Description: strings.TrimSpace(row[2]),
			UnitPrice:   unitPrice,
			Inventory:   inventory,
		})
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d invalid rows\n", skippedCount)
	}

	return result, nil
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := strings.ToLower(strings.TrimSpace(s))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "product"
	}
	return slug
}
