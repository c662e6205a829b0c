// cmd/tools/catalog-updater/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"assessment-workers/internal/common/http"
	"assessment-workers/pkg/catalog"
)

var catalogPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	syncCmd := flag.NewFlagSet("sync", flag.ExitOnError)

	// Add command flags
	idAdd := addCmd.String("id", "", "Use case ID (e.g., uc-dashboards)")
	name := addCmd.String("name", "", "Display name (e.g., Self-Service Dashboards)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., analytics)")
	requirements := addCmd.String("requirements", "", "Pillar requirements as pillar=score pairs (e.g., strategy=4,data=3)")
	tags := addCmd.String("tags", "", "Comma-separated tags")
	position := addCmd.Int("position", 0, "Catalog position")

	// Update command flags
	idUpdate := updateCmd.String("id", "", "Use case ID to update")
	field := updateCmd.String("field", "", "Field to update (name, description, category, active, dashboardVisible, position)")
	value := updateCmd.String("value", "", "New value for the field")

	// Validate command flags
	validateCmd.StringVar(&catalogPath, "path", "configs/use-case-catalog.json", "Path to catalog file")
	scaleMin := validateCmd.Float64("scale-min", 1, "Minimum of the maturity scale")
	scaleMax := validateCmd.Float64("scale-max", 5, "Maximum of the maturity scale")

	// Sync command flags
	serviceURL := syncCmd.String("url", "", "Catalog service URL to push the document to")
	syncTimeout := syncCmd.Duration("timeout", 10*time.Second, "Request timeout")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *name == "" || *category == "" {
			fmt.Println("Error: id, name, and category are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		pillarReqs, err := parseRequirements(*requirements)
		if err != nil {
			fmt.Printf("Error parsing requirements: %v\n", err)
			os.Exit(1)
		}
		entry := catalog.Entry{
			ID:                 *idAdd,
			Name:               *name,
			Description:        *description,
			Category:           *category,
			PillarRequirements: pillarReqs,
			Tags:               splitTags(*tags),
			Active:             true,
			DashboardVisible:   true,
			Position:           *position,
		}
		if err := addUseCase(&entry); err != nil {
			fmt.Printf("Error adding use case: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Added use case: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateUseCase(*idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating use case: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated use case %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		if err := validateCatalog(*scaleMin, *scaleMax); err != nil {
			fmt.Printf("Catalog validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog validation passed.")

	case "sync":
		syncCmd.Parse(os.Args[2:])
		if *serviceURL == "" {
			*serviceURL = os.Getenv("CATALOG_SERVICE_URL")
		}
		if *serviceURL == "" {
			fmt.Println("Error: url is required for sync (flag -url or CATALOG_SERVICE_URL).")
			syncCmd.Usage()
			os.Exit(1)
		}
		if err := syncCatalog(*serviceURL, *syncTimeout); err != nil {
			fmt.Printf("Catalog sync failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Catalog synced.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func init() {
	catalogPath = "configs/use-case-catalog.json"
}

func addUseCase(entry *catalog.Entry) error {
	doc, err := catalog.Load(catalogPath)
	if err != nil {
		// If file doesn't exist, create a new catalog
		if os.IsNotExist(err) {
			doc = &catalog.Document{
				Version:  "1.0.0",
				UseCases: []catalog.Entry{},
			}
		} else {
			return fmt.Errorf("failed to load catalog: %w", err)
		}
	}

	if doc.Find(entry.ID) != nil {
		return fmt.Errorf("use case with ID %s already exists", entry.ID)
	}

	if entry.Position == 0 {
		entry.Position = len(doc.UseCases) + 1
	}

	doc.UseCases = append(doc.UseCases, *entry)
	doc.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(doc, catalogPath)
}

func updateUseCase(id, field, value string) error {
	doc, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	entry := doc.Find(id)
	if entry == nil {
		return fmt.Errorf("use case with ID %s not found", id)
	}

	switch field {
	case "name":
		entry.Name = value
	case "description":
		entry.Description = value
	case "category":
		entry.Category = value
	case "active":
		active, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid active value: %w", err)
		}
		entry.Active = active
	case "dashboardVisible":
		visible, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid dashboardVisible value: %w", err)
		}
		entry.DashboardVisible = visible
	case "position":
		pos, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid position value: %w", err)
		}
		entry.Position = pos
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	doc.LastUpdated = time.Now().Format(time.RFC3339)
	return catalog.Save(doc, catalogPath)
}

func validateCatalog(scaleMin, scaleMax float64) error {
	doc, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := doc.Validate(scaleMin, scaleMax); err != nil {
		return err
	}

	fmt.Printf("Catalog validation passed. Found %d use cases.\n", len(doc.UseCases))
	return nil
}

// syncCatalog pushes the local catalog document to the catalog service.
func syncCatalog(serviceURL string, timeout time.Duration) error {
	doc, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client := http.NewClient(timeout)
	if err := client.PutJSON(ctx, strings.TrimRight(serviceURL, "/")+"/catalog", doc); err != nil {
		return fmt.Errorf("sync request failed: %w", err)
	}

	fmt.Printf("Pushed %d use cases to %s\n", len(doc.UseCases), serviceURL)
	return nil
}

func parseRequirements(raw string) (map[string]float64, error) {
	reqs := map[string]float64{}
	if raw == "" {
		return reqs, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed requirement %q, expected pillar=score", pair)
		}
		score, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score for pillar %s: %w", parts[0], err)
		}
		reqs[parts[0]] = score
	}
	return reqs, nil
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	tags := strings.Split(raw, ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	return tags
}

func help() {
	fmt.Print(`
Usage: catalog-updater <command> [flags]

Commands:
  add      Add a new use case to the catalog
  update   Update an existing use case's field
  validate Validate the catalog file
  sync     Push the catalog to the catalog service
  help     Show this help message

Examples:
  catalog-updater add -id uc-dashboards -name "Self-Service Dashboards" -category analytics -requirements strategy=4,data=3 -tags reporting,bi
  catalog-updater update -id uc-dashboards -field active -value false
  catalog-updater validate -path configs/use-case-catalog.json
  catalog-updater sync -url https://catalog.internal.example.com

Use 'catalog-updater <command> -h' for more information about a command.

`)
}
