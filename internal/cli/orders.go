package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"bizapp/internal/usecase"
)

func (a *App) runOrder(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(a.Err, "usage: bizapp order add|list|unpaid|show|add-item|remove-item|set-qty|pay|cancel")
		return ExitUsage
	}

	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		return a.orderAdd(ctx, rest)
	case "list":
		return a.orderList(ctx, rest)
	case "unpaid":
		return a.orderUnpaid(ctx)
	case "show":
		return a.orderShow(ctx, rest)
	case "add-item":
		return a.orderAddItem(ctx, rest)
	case "remove-item":
		return a.orderRemoveItem(ctx, rest)
	case "set-qty":
		return a.orderSetQty(ctx, rest)
	case "pay":
		return a.orderPay(ctx, rest)
	case "cancel":
		return a.orderCancel(ctx, rest)
	default:
		fmt.Fprintf(a.Err, "unknown order command: %s\n", sub)
		return ExitUsage
	}
}

func (a *App) orderAdd(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("order add", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.CreateOrderInput
	fs.Int64Var(&in.CustomerID, "customer", 0, "customer id (required)")
	fs.StringVar(&in.Notes, "notes", "", "free-form notes")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	out, err := a.Orders.Create(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "order %s created (id %d)\n", out.OrderNumber, out.ID)
	return ExitOK
}

func (a *App) orderList(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("order list", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", 20, "page size")
	status := fs.String("status", "", "CREATED|PAID|CANCELLED")
	customer := fs.Int64("customer", 0, "filter by customer id")
	from := fs.String("from", "", "order date from (2006-01-02)")
	to := fs.String("to", "", "order date to (2006-01-02)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	in := usecase.ListOrdersInput{
		Page:   *page,
		Limit:  *limit,
		Status: *status,
	}
	if *customer > 0 {
		in.CustomerID = customer
	}

	var ok bool
	if in.From, ok = parseDay(a.Err, *from, false); !ok {
		return ExitUsage
	}
	if in.To, ok = parseDay(a.Err, *to, true); !ok {
		return ExitUsage
	}

	out, err := a.Orders.List(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	a.printOrderTable(out)
	return ExitOK
}

func (a *App) orderUnpaid(ctx context.Context) int {
	out, err := a.Orders.ListUnpaid(ctx)
	if err != nil {
		return a.writeError(err)
	}

	a.printOrderTable(out)
	return ExitOK
}

// IDでも注文番号（ORD...）でも引けるようにする
func (a *App) orderShow(ctx context.Context, args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.Err, "usage: bizapp order show <id|number>")
		return ExitUsage
	}

	var out usecase.OrderOutput
	var err error
	if id, convErr := strconv.ParseInt(args[0], 10, 64); convErr == nil {
		out, err = a.Orders.Get(ctx, id)
	} else {
		out, err = a.Orders.GetByNumber(ctx, args[0])
	}
	if err != nil {
		return a.writeError(err)
	}

	printJSON(a.Out, out)
	return ExitOK
}

func (a *App) orderAddItem(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("order add-item", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.AddItemInput
	fs.Int64Var(&in.OrderID, "order", 0, "order id (required)")
	fs.Int64Var(&in.ProductID, "product", 0, "product id (required)")
	fs.Int64Var(&in.Quantity, "qty", 0, "quantity (required)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	out, err := a.Orders.AddItem(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "order %s total %d\n", out.OrderNumber, out.TotalAmount)
	return ExitOK
}

func (a *App) orderRemoveItem(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("order remove-item", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.RemoveItemInput
	fs.Int64Var(&in.OrderID, "order", 0, "order id (required)")
	fs.Int64Var(&in.ItemID, "item", 0, "item id (required)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	out, err := a.Orders.RemoveItem(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "order %s total %d\n", out.OrderNumber, out.TotalAmount)
	return ExitOK
}

func (a *App) orderSetQty(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("order set-qty", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.UpdateItemQuantityInput
	fs.Int64Var(&in.OrderID, "order", 0, "order id (required)")
	fs.Int64Var(&in.ItemID, "item", 0, "item id (required)")
	fs.Int64Var(&in.Quantity, "qty", 0, "new quantity (required)")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	out, err := a.Orders.UpdateItemQuantity(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "order %s total %d\n", out.OrderNumber, out.TotalAmount)
	return ExitOK
}

func (a *App) orderPay(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("order pay", flag.ContinueOnError)
	fs.SetOutput(a.Err)
	var in usecase.PayOrderInput
	fs.Int64Var(&in.OrderID, "order", 0, "order id (required)")
	fs.Int64Var(&in.Amount, "amount", 0, "paid amount, must equal total")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	out, err := a.Orders.Pay(ctx, in)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "order %s paid (%d)\n", out.OrderNumber, out.PaidAmount)
	return ExitOK
}

func (a *App) orderCancel(ctx context.Context, args []string) int {
	id, ok := parseID(a.Err, args, "bizapp order cancel <id>")
	if !ok {
		return ExitUsage
	}

	out, err := a.Orders.Cancel(ctx, id)
	if err != nil {
		return a.writeError(err)
	}

	fmt.Fprintf(a.Out, "order %s cancelled\n", out.OrderNumber)
	return ExitOK
}

func (a *App) printOrderTable(out usecase.OrderListOutput) {
	tw := newTable(a.Out)
	row(tw, "ID", "NUMBER", "CUSTOMER", "STATUS", "TOTAL", "PAID", "DATE")
	for _, o := range out.Items {
		row(tw, o.ID, o.OrderNumber, o.CustomerID, o.Status, o.TotalAmount, o.PaidAmount, formatDate(o.OrderDate))
	}
	tw.Flush()
	fmt.Fprintf(a.Out, "%d of %d\n", len(out.Items), out.Total)
}

// 日付だけの指定をその日の始端/終端に広げる
func parseDay(errW io.Writer, s string, endOfDay bool) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		fmt.Fprintf(errW, "invalid date: %s\n", s)
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
