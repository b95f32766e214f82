package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/digitalworld/storefront-client/internal/catalog"
	"github.com/digitalworld/storefront-client/internal/checkout"
	"github.com/digitalworld/storefront-client/internal/errors"
	"github.com/digitalworld/storefront-client/internal/health"
	"github.com/digitalworld/storefront-client/internal/models"
	"github.com/digitalworld/storefront-client/internal/prefs"
	"github.com/digitalworld/storefront-client/internal/token"
)

const usage = `usage: storefront [-config FILE] COMMAND

Account:
  login EMAIL            request an OTP and sign in
  signup EMAIL NAME      request an OTP and create an account
  logout                 sign out locally
  whoami                 show session and token details

Shopping:
  products [flags]       browse the catalog (see products -help)
  product ID             show one product
  cart                   show the cart
  cart add PRODUCT [-size S] [-qty N]
  cart update ITEM QTY
  cart remove ITEM
  checkout               interactive checkout
  orders                 order history
  orders show ID
  orders cancel ID

Seller portal:
  seller login EMAIL     seller sign in
  seller register        interactive seller registration
  seller verify OTP      verify seller email
  seller logout
  seller profile
  seller report
  seller products
  seller products add
  seller products update ID
  seller products delete ID
  seller orders
  seller orders status ID STATUS

Other:
  theme [light|dark|toggle]
  status                 check backend and storage health
`

func (a *app) run(ctx context.Context, args []string) error {

	if len(args) == 0 {
		fmt.Print(usage)

		return nil
	}

	switch args[0] {
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "signup":
		return a.cmdSignup(ctx, args[1:])
	case "logout":
		a.customerSession.Logout(ctx)
		fmt.Println("Logged out.")

		return nil
	case "whoami":
		return a.cmdWhoami(ctx)
	case "products":
		return a.cmdProducts(ctx, args[1:])
	case "product":
		return a.cmdProduct(ctx, args[1:])
	case "cart":
		return a.cmdCart(ctx, args[1:])
	case "checkout":
		return a.cmdCheckout(ctx)
	case "orders":
		return a.cmdOrders(ctx, args[1:])
	case "seller":
		return a.cmdSeller(ctx, args[1:])
	case "theme":
		return a.cmdTheme(ctx, args[1:])
	case "status":
		return a.cmdStatus(ctx)
	case "help", "-h", "--help":
		fmt.Print(usage)

		return nil
	default:
		return fmt.Errorf("unknown command %q, run 'storefront help'", args[0])
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {

	if len(args) != 1 {
		return fmt.Errorf("usage: storefront login EMAIL")
	}

	email := args[0]

	if _, err := a.customerSession.RequestOTP(ctx, email); err != nil {
		return err
	}

	fmt.Printf("An OTP has been sent to %s.\n", email)

	otp, err := prompt("OTP: ")
	if err != nil {
		return err
	}

	if _, err := a.customerSession.Login(ctx, email, otp); err != nil {
		return err
	}

	state := a.customerSession.State()
	fmt.Printf("Welcome back, %s.\n", state.User.FullName)

	a.warnCartUnavailable()

	return nil
}

func (a *app) cmdSignup(ctx context.Context, args []string) error {

	if len(args) < 2 {
		return fmt.Errorf("usage: storefront signup EMAIL NAME")
	}

	email := args[0]
	fullName := strings.Join(args[1:], " ")

	if _, err := a.customerSession.RequestOTP(ctx, email); err != nil {
		return err
	}

	fmt.Printf("An OTP has been sent to %s.\n", email)

	otp, err := prompt("OTP: ")
	if err != nil {
		return err
	}

	if _, err := a.customerSession.Signup(ctx, email, fullName, otp); err != nil {
		return err
	}

	fmt.Printf("Welcome, %s.\n", fullName)

	a.warnCartUnavailable()

	return nil
}

// warnCartUnavailable reports a cart load that failed behind the login
// observer; without it the user would just see an empty cart.
func (a *app) warnCartUnavailable() {

	if err := a.cart.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: your cart could not be loaded: %s\n", errorMessage(err))
	}
}

// cmdWhoami is the auth debug panel: session state plus an unverified
// decode of whatever tokens are persisted.
func (a *app) cmdWhoami(ctx context.Context) error {

	state := a.customerSession.State()

	if state.Authenticated {
		fmt.Printf("Customer: %s <%s>\n", state.User.FullName, state.User.Email)
	} else {
		fmt.Println("Customer: not signed in")
	}

	sellerState := a.sellerSession.State()

	if sellerState.Authenticated {
		fmt.Printf("Seller: %s <%s>\n", sellerState.Seller.SellerName, sellerState.Seller.Email)
	} else {
		fmt.Println("Seller: not signed in")
	}

	for _, kind := range []token.Kind{token.KindCustomer, token.KindSeller} {

		var tok string

		found, err := a.store.Get(ctx, kind.StorageKey(), &tok)
		if err != nil || !found || tok == "" {
			continue
		}

		info, err := token.Inspect(tok)
		if err != nil {
			fmt.Printf("%s token: malformed\n", kind)

			continue
		}

		status := "valid"
		if info.Expired {
			status = "expired - log in again"
		}

		fmt.Printf("%s token: %s, email=%s, expires=%s\n", kind, status, info.Email, info.ExpiresAt)
	}

	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {

	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	query := fs.String("query", "", "full-text search instead of filtering")
	category := fs.String("category", "", "category filter")
	brand := fs.String("brand", "", "brand filter")
	color := fs.String("color", "", "color filter")
	minPrice := fs.Int("min-price", 0, "minimum price")
	maxPrice := fs.Int("max-price", 0, "maximum price")
	discount := fs.Int("discount", 0, "minimum discount percent")
	sort := fs.String("sort", "", "sort order")
	page := fs.Int("page", 0, "page number")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *query != "" {
		products, err := a.catalog.Search(ctx, *query)
		if err != nil {
			return err
		}

		printProducts(products)

		return nil
	}

	filters := catalog.Filters{
		Category:   *category,
		Brand:      *brand,
		Color:      *color,
		MinPrice:   *minPrice,
		MaxPrice:   *maxPrice,
		Discount:   *discount,
		Sort:       *sort,
		PageNumber: *page,
	}

	result, err := a.catalog.List(ctx, filters)
	if err != nil {
		return err
	}

	printProducts(result.Content)
	fmt.Printf("page %d of %d  (filters: %s)\n", filters.PageNumber+1, result.TotalPages, filters.Values().Encode())

	return nil
}

func (a *app) cmdProduct(ctx context.Context, args []string) error {

	if len(args) != 1 {
		return fmt.Errorf("usage: storefront product ID")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	product, err := a.catalog.Get(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", product.Title)
	fmt.Printf("  price: %d (MRP %d, %d%% off)\n", product.SellingPrice, product.MRPPrice, product.DiscountPercent)

	if product.Color != "" {
		fmt.Printf("  color: %s\n", product.Color)
	}

	if product.Sizes != "" {
		fmt.Printf("  sizes: %s\n", product.Sizes)
	}

	if product.Description != "" {
		fmt.Printf("  %s\n", product.Description)
	}

	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {

	if len(args) == 0 {

		if err := a.cart.Refresh(ctx); err != nil {
			return err
		}

		printCart(a.cart.Cart())

		return nil
	}

	switch args[0] {
	case "add":

		fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
		size := fs.String("size", "", "selected size")
		qty := fs.Int("qty", 1, "quantity")

		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart add PRODUCT [-size S] [-qty N]")
		}

		productID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}

		if err := fs.Parse(args[2:]); err != nil {
			return err
		}

		if err := a.cart.AddItem(ctx, productID, *size, *qty); err != nil {
			return err
		}

		fmt.Printf("Added. Cart now holds %d item(s), total %d.\n", a.cart.ItemCount(), a.cart.Total())

		return nil

	case "update":

		if len(args) != 3 {
			return fmt.Errorf("usage: storefront cart update ITEM QTY")
		}

		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[1])
		}

		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}

		if err := a.cart.UpdateItem(ctx, itemID, qty); err != nil {
			return err
		}

		printCart(a.cart.Cart())

		return nil

	case "remove":

		if len(args) != 2 {
			return fmt.Errorf("usage: storefront cart remove ITEM")
		}

		itemID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid item id %q", args[1])
		}

		if err := a.cart.RemoveItem(ctx, itemID); err != nil {
			return err
		}

		printCart(a.cart.Cart())

		return nil

	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) cmdCheckout(ctx context.Context) error {

	if err := a.cart.Refresh(ctx); err != nil {
		return err
	}

	wizard := checkout.NewWizard(a.cart, a.orders, a.validate,
		a.cfg.Checkout.DefaultCountry, a.cfg.Checkout.DefaultPaymentMethod)

	if err := wizard.Start(a.customerSession.State().User); err != nil {
		return err
	}

	printCart(a.cart.Cart())

	// Address step; re-prompt until the form validates, as the web form did.
	for {
		addr, err := promptAddress(wizard.Address())
		if err != nil {
			return err
		}

		if err := wizard.SetAddress(addr); err != nil {
			fmt.Println(errorMessage(err))

			continue
		}

		break
	}

	method, err := prompt(fmt.Sprintf("Payment method [%s]: ", wizard.PaymentMethod()))
	if err != nil {
		return err
	}

	wizard.SetPaymentMethod(strings.ToUpper(strings.TrimSpace(method)))

	paymentURL, err := wizard.PlaceOrder(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Order placed. Complete payment at:")
	fmt.Println("  " + paymentURL)

	return nil
}

func (a *app) cmdOrders(ctx context.Context, args []string) error {

	if len(args) == 0 {

		history, err := a.orders.History(ctx)
		if err != nil {
			return err
		}

		if len(history) == 0 {
			fmt.Println("No orders yet.")

			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tITEMS\tTOTAL")

		for _, o := range history {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", o.ID, o.OrderStatus, len(o.OrderItems), o.TotalSellingPrice)
		}

		return w.Flush()
	}

	switch args[0] {
	case "show":

		if len(args) != 2 {
			return fmt.Errorf("usage: storefront orders show ID")
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}

		order, err := a.orders.Get(ctx, id)
		if err != nil {
			return err
		}

		printOrder(order)

		return nil

	case "cancel":

		if len(args) != 2 {
			return fmt.Errorf("usage: storefront orders cancel ID")
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}

		order, err := a.orders.Cancel(ctx, id)
		if err != nil {
			return err
		}

		fmt.Printf("Order %d is now %s.\n", order.ID, order.OrderStatus)

		return nil

	default:
		return fmt.Errorf("unknown orders command %q", args[0])
	}
}

func (a *app) cmdTheme(ctx context.Context, args []string) error {

	if len(args) == 0 {
		fmt.Println(a.prefs.Theme())

		return nil
	}

	switch args[0] {
	case "toggle":
		theme, err := a.prefs.Toggle(ctx)
		if err != nil {
			return err
		}

		fmt.Println(theme)

		return nil
	case "light", "dark":
		if err := a.prefs.SetTheme(ctx, prefs.Theme(args[0])); err != nil {
			return err
		}

		fmt.Println(args[0])

		return nil
	default:
		return fmt.Errorf("usage: storefront theme [light|dark|toggle]")
	}
}

func (a *app) cmdStatus(ctx context.Context) error {

	h, err := health.New(a.cfg, a.store)
	if err != nil {
		return err
	}

	check := h.Measure(ctx)

	out, err := json.MarshalIndent(check, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(out))

	return nil
}

func printProducts(products []models.Product) {

	if len(products) == 0 {
		fmt.Println("No products found.")

		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tPRICE\tMRP\tOFF")

	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d%%\n", p.ID, p.Title, p.SellingPrice, p.MRPPrice, p.DiscountPercent)
	}

	w.Flush()
}

func printCart(cart *models.Cart) {

	if cart == nil || len(cart.CartItems) == 0 {
		fmt.Println("Cart is empty.")

		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tSIZE\tQTY\tPRICE")

	for _, item := range cart.CartItems {

		title := ""
		if item.Product != nil {
			title = item.Product.Title
		}

		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", item.ID, title, item.Size, item.Quantity, item.SellingPrice)
	}

	w.Flush()

	fmt.Printf("total: %d (MRP %d, you save %d)\n",
		cart.TotalSellingPrice, cart.TotalMRPPrice, cart.TotalMRPPrice-cart.TotalSellingPrice)
}

func printOrder(order *models.Order) {

	fmt.Printf("Order %d: %s, total %d\n", order.ID, order.OrderStatus, order.TotalSellingPrice)

	for _, item := range order.OrderItems {

		title := ""
		if item.Product != nil {
			title = item.Product.Title
		}

		fmt.Printf("  %s x%d  %d\n", title, item.Quantity, item.SellingPrice)
	}

	if order.ShippingAddress != nil {
		addr := order.ShippingAddress
		fmt.Printf("  ship to: %s, %s, %s %s - %s\n", addr.Name, addr.Street, addr.City, addr.State, addr.PinCode)
	}
}

func promptAddress(prefill models.Address) (models.Address, error) {

	addr := prefill

	fields := []struct {
		label string
		value *string
	}{
		{"Name", &addr.Name},
		{"Street", &addr.Street},
		{"Locality", &addr.Locality},
		{"City", &addr.City},
		{"State", &addr.State},
		{"Pin code", &addr.PinCode},
		{"Mobile", &addr.Mobile},
		{"Country", &addr.Country},
	}

	for _, f := range fields {

		label := f.label
		if *f.value != "" {
			label = fmt.Sprintf("%s [%s]", f.label, *f.value)
		}

		input, err := prompt(label + ": ")
		if err != nil {
			return addr, err
		}

		if input != "" {
			*f.value = input
		}
	}

	return addr, nil
}

var stdin = bufio.NewReader(os.Stdin)

func prompt(label string) (string, error) {

	fmt.Print(label)

	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// errorMessage prefers the structured message over raw error chains for
// anything user-facing.
func errorMessage(err error) string {

	if appErr, ok := errors.IsAppError(err); ok {

		if appErr.Detail != "" {
			return appErr.Message + ": " + appErr.Detail
		}

		return appErr.Message
	}

	return err.Error()
}
