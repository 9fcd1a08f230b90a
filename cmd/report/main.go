package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"bangazon-api/internal/model"
	"bangazon-api/internal/report"
	"bangazon-api/pkg/config"
	"bangazon-api/pkg/database"
	"bangazon-api/pkg/logger"

	"github.com/olekukonko/tablewriter"
	"gorm.io/gorm"
)

func main() {
	var (
		reportName = flag.String("report", "incomplete_orders", "report to run: incomplete_orders, completed_orders, expensive_products, inexpensive_products, favoritesellers")
		customerID = flag.Uint("customer", 0, "customer id (required for favoritesellers)")
	)
	flag.Parse()

	cfg, err := config.Load("bangazon-report")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	db := database.GetDB()

	if err := runReport(db, *reportName, uint(*customerID)); err != nil {
		log.Fatalf("report failed: %v", err)
	}
}

func runReport(db *gorm.DB, name string, customerID uint) error {
	switch name {
	case "incomplete_orders":
		rows, err := report.IncompleteOrders(db)
		if err != nil {
			return err
		}
		return renderOrders(rows, false)
	case "completed_orders":
		rows, err := report.CompletedOrders(db)
		if err != nil {
			return err
		}
		return renderOrders(rows, true)
	case "expensive_products":
		products, err := report.ExpensiveProducts(db)
		if err != nil {
			return err
		}
		return renderProducts(products)
	case "inexpensive_products":
		products, err := report.InexpensiveProducts(db)
		if err != nil {
			return err
		}
		return renderProducts(products)
	case "favoritesellers":
		if customerID == 0 {
			return fmt.Errorf("the favoritesellers report requires -customer")
		}
		sellers, err := report.FavoriteSellers(db, customerID)
		if err != nil {
			return err
		}
		return renderSellers(sellers)
	default:
		return fmt.Errorf("unknown report %q", name)
	}
}

func renderOrders(rows []report.OrderSummary, completed bool) error {
	table := tablewriter.NewTable(os.Stdout)
	if completed {
		table.Header("ORDER ID", "CUSTOMER", "TOTAL COST", "PAYMENT TYPE", "COMPLETED")
	} else {
		table.Header("ORDER ID", "CUSTOMER", "TOTAL COST")
	}
	for _, r := range rows {
		if completed {
			when := ""
			if r.CompletedDate != nil {
				when = r.CompletedDate.Format("2006-01-02 15:04")
			}
			table.Append([]string{
				strconv.FormatUint(uint64(r.OrderID), 10),
				r.CustomerName,
				fmt.Sprintf("%.2f", r.TotalCost),
				r.MerchantName,
				when,
			})
		} else {
			table.Append([]string{
				strconv.FormatUint(uint64(r.OrderID), 10),
				r.CustomerName,
				fmt.Sprintf("%.2f", r.TotalCost),
			})
		}
	}
	return table.Render()
}

func renderProducts(products []model.Product) error {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("ID", "NAME", "PRICE", "QUANTITY", "LOCATION")
	for _, p := range products {
		table.Append([]string{
			strconv.FormatUint(uint64(p.ID), 10),
			p.Name,
			fmt.Sprintf("%.2f", p.Price),
			strconv.Itoa(p.Quantity),
			p.Location,
		})
	}
	return table.Render()
}

func renderSellers(sellers []report.SellerName) error {
	table := tablewriter.NewTable(os.Stdout)
	table.Header("FAVORITE ID", "FIRST NAME", "LAST NAME", "USERNAME")
	for _, s := range sellers {
		table.Append([]string{
			strconv.FormatUint(uint64(s.FavoriteID), 10),
			s.FirstName,
			s.LastName,
			s.Username,
		})
	}
	return table.Render()
}
