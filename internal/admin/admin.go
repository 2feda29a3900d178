// Package admin is the kitchen-side client: adding menu items and reviewing
// placed orders.
package admin

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"hannas-kitchen/internal/apiclient"
	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/validation"
)

// ItemForm is the add-item form. Category defaults to Cake, the first option
// the form offers.
type ItemForm struct {
	Name     string
	Price    string
	Category string
	Tags     string
	Image    *apiclient.Image
}

// OrderView is one order prepared for display.
type OrderView struct {
	Number int
	Order  models.ResolvedOrder
	Lines  []string
}

type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// AddItem checks that name and price are filled in and posts the form.
func (c *Client) AddItem(ctx context.Context, form ItemForm) error {
	if strings.TrimSpace(form.Name) == "" || strings.TrimSpace(form.Price) == "" {
		return validation.ValidationError{Field: "name", Message: "Please provide item name and price."}
	}
	category := form.Category
	if category == "" {
		category = string(models.AdminFormCategories[0])
	}

	return c.api.AddItem(ctx, map[string]string{
		"name":     form.Name,
		"price":    form.Price,
		"category": category,
		"tags":     form.Tags,
	}, form.Image)
}

// LoadOrders fetches all orders once and returns them newest first. Numbers
// count down so the newest order has the highest number.
func (c *Client) LoadOrders(ctx context.Context) ([]OrderView, error) {
	orders, err := c.api.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	return BuildViews(orders), nil
}

// BuildViews sorts orders by placedAt descending, keeping server order for ties.
func BuildViews(orders []models.ResolvedOrder) []OrderView {
	sorted := append([]models.ResolvedOrder(nil), orders...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlacedAt.After(sorted[j].PlacedAt)
	})

	views := make([]OrderView, 0, len(sorted))
	for i, o := range sorted {
		lines := make([]string, 0, len(o.Items))
		for _, line := range o.Items {
			lines = append(lines, LineLabel(line))
		}
		views = append(views, OrderView{
			Number: len(sorted) - i,
			Order:  o,
			Lines:  lines,
		})
	}
	return views
}

// LineLabel renders "<name> × <qty>".
func LineLabel(line models.ResolvedLine) string {
	name := line.Name
	if line.Item != nil && line.Item.Name != "" {
		name = line.Item.Name
	}
	if name == "" {
		name = models.UnknownItemName
	}
	return fmt.Sprintf("%s × %d", name, line.Quantity)
}

// Render writes the order list as plain text.
func Render(w io.Writer, views []OrderView) {
	fmt.Fprintf(w, "📦 Recent Orders (%d)\n", len(views))
	if len(views) == 0 {
		fmt.Fprintln(w, "No orders yet.")
		return
	}
	for _, v := range views {
		o := v.Order
		fmt.Fprintf(w, "\nOrder #%d  %s\n", v.Number, o.PlacedAt.Local().Format("Jan 2, 2006, 03:04 PM"))
		fmt.Fprintf(w, "Name: %s\nPhone: %s\nAddress: %s\n", o.CustomerName, o.Phone, o.Address)
		fmt.Fprintln(w, "Items:")
		for _, l := range v.Lines {
			fmt.Fprintf(w, "  - %s\n", l)
		}
		fmt.Fprintf(w, "Total: ₹%s\n", models.FormatAmount(o.TotalAmount))
	}
}
