package cli

import (
	"context"
	"flag"
	"fmt"

	"bizapp/internal/usecase"
)

func (a *App) runProduct(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.Err, "usage: bizapp product add|list|search|show|update|delete|low-stock|adjust-stock|movements")
		return ExitUsage
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		return a.productAdd(ctx, rest)
	case "list":
		return a.productList(ctx, rest, "")
	case "search":
		if len(rest) < 1 {
			fmt.Fprintln(a.Err, "usage: bizapp product search <query>")
			return ExitUsage
		}
		return a.productList(ctx, rest[1:], rest[0])
	case "show":
		return a.productShow(ctx, rest)
	case "update":
		return a.productUpdate(ctx, rest)
	case "delete":
		return a.productDelete(ctx, rest)
	case "low-stock":
		return a.productLowStock(ctx, rest)
	case "adjust-stock":
		return a.productAdjustStock(ctx, rest)
	case "movements":
		return a.productMovements(ctx, rest)
	default:
		fmt.Fprintf(a.Err, "unknown product command: %s\n", sub)
		return ExitUsage
	}
}

func (a *App) productAdd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("product add", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.CreateProductInput
	fs.StringVar(&in.Name, "name", "", "product name (required)")
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.Int64Var(&in.Price, "price", 0, "selling price")
	fs.Int64Var(&in.Cost, "cost", 0, "purchase cost")
	fs.Int64Var(&in.Stock, "stock", 0, "initial stock")
	fs.StringVar(&in.Unit, "unit", "pcs", "stock unit")
	fs.StringVar(&in.Category, "category", "", "category")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	id, err := a.Products.Create(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "product %d created\n", id)
	return ExitOK
}

func (a *App) productList(ctx context.Context, args []string, q string) int {
	fs := flag.NewFlagSet("product list", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	category := fs.String("category", "", "filter by category")
	sort := fs.String("sort", "", "name|price_asc|price_desc|stock_asc")
	minPrice := fs.Int64("min-price", -1, "minimum price")
	maxPrice := fs.Int64("max-price", -1, "maximum price")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	in := usecase.ListProductsInput{
		Page:     *page,
		Limit:    *limit,
		Q:        q,
		Category: *category,
		Sort:     *sort,
	}
	if *minPrice >= 0 {
		in.MinPrice = minPrice
	}
	if *maxPrice >= 0 {
		in.MaxPrice = maxPrice
	}

	out, err := a.Products.List(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	tw := newTable(a.Out)
	row(tw, "ID", "NAME", "PRICE", "STOCK", "UNIT", "CATEGORY")
	for _, p := range out.Items {
		row(tw, p.ID, p.Name, p.Price, p.Stock, p.Unit, p.Category)
	}
	tw.Flush()
	fmt.Fprintf(a.Out, "%d of %d\n", len(out.Items), out.Total)
	return ExitOK
}

func (a *App) productShow(ctx context.Context, args []string) int {
	id, ok := parseID(a.Err, args, "bizapp product show <id>")
	if !ok {
		return ExitUsage
	}

	p, err := a.Products.Get(ctx, id)
	if err != nil {
		return a.writeError(err)
	}

	printJSON(a.Out, p)
	return ExitOK
}

func (a *App) productUpdate(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.Err, "usage: bizapp product update <id> [flags]")
		return ExitUsage
	}
	id, ok := parseID(a.Err, args[:1], "bizapp product update <id> [flags]")
	if !ok {
		return ExitUsage
	}

	fs := flag.NewFlagSet("product update", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.UpdateProductInput
	fs.StringVar(&in.Name, "name", "", "product name (required)")
	fs.StringVar(&in.Description, "desc", "", "description")
	fs.Int64Var(&in.Price, "price", 0, "selling price")
	fs.Int64Var(&in.Cost, "cost", 0, "purchase cost")
	fs.StringVar(&in.Unit, "unit", "pcs", "stock unit")
	fs.StringVar(&in.Category, "category", "", "category")
	if err := fs.Parse(args[1:]); err != nil {
		return ExitUsage
	}

	if err := a.Products.Update(ctx, id, in); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "product %d updated\n", id)
	return ExitOK
}

func (a *App) productDelete(ctx context.Context, args []string) int {
	id, ok := parseID(a.Err, args, "bizapp product delete <id>")
	if !ok {
		return ExitUsage
	}

	if err := a.Products.Delete(ctx, id); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "product %d deleted\n", id)
	return ExitOK
}

func (a *App) productLowStock(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("product low-stock", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	threshold := fs.Int64("threshold", 5, "alert when stock <= threshold")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	items, err := a.Products.LowStock(ctx, *threshold)
	if err != nil {
		return a.writeError(err)
	}

	tw := newTable(a.Out)
	row(tw, "ID", "NAME", "STOCK", "UNIT")
	for _, p := range items {
		row(tw, p.ID, p.Name, p.Stock, p.Unit)
	}
	tw.Flush()
	return ExitOK
}

func (a *App) productAdjustStock(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("product adjust-stock", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.AdjustStockInput
	fs.Int64Var(&in.ProductID, "product", 0, "product id (required)")
	fs.Int64Var(&in.NewStock, "stock", 0, "new stock value")
	fs.StringVar(&in.Reason, "reason", "", "reason (required)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	if err := a.Products.AdjustStock(ctx, in); err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "product %d stock set to %d\n", in.ProductID, in.NewStock)
	return ExitOK
}

func (a *App) productMovements(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.Err, "usage: bizapp product movements <id> [-limit n]")
		return ExitUsage
	}
	id, ok := parseID(a.Err, args[:1], "bizapp product movements <id> [-limit n]")
	if !ok {
		return ExitUsage
	}

	fs := flag.NewFlagSet("product movements", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	limit := fs.Int("limit", 50, "max rows")
	if err := fs.Parse(args[1:]); err != nil {
		return ExitUsage
	}

	items, err := a.Products.Movements(ctx, id, *limit)
	if err != nil {
		return a.writeError(err)
	}

	tw := newTable(a.Out)
	row(tw, "ID", "KIND", "DELTA", "REASON", "AT")
	for _, m := range items {
		row(tw, m.ID, m.Kind, m.Delta, m.Reason, formatDate(m.CreatedAt))
	}
	tw.Flush()
	return ExitOK
}
