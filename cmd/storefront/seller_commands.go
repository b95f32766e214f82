package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/digitalworld/storefront-client/internal/models"
)

func (a *app) cmdSeller(ctx context.Context, args []string) error {

	if len(args) == 0 {
		return fmt.Errorf("usage: storefront seller COMMAND, run 'storefront help'")
	}

	switch args[0] {
	case "login":
		return a.cmdSellerLogin(ctx, args[1:])
	case "register":
		return a.cmdSellerRegister(ctx)
	case "verify":

		if len(args) != 2 {
			return fmt.Errorf("usage: storefront seller verify OTP")
		}

		seller, err := a.sellerSession.VerifyEmail(ctx, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Email verified for %s.\n", seller.Email)

		return nil

	case "logout":
		a.sellerSession.Logout(ctx)
		fmt.Println("Seller logged out.")

		return nil
	case "profile":
		return a.cmdSellerProfile(ctx)
	case "report":
		return a.cmdSellerReport(ctx)
	case "products":
		return a.cmdSellerProducts(ctx, args[1:])
	case "orders":
		return a.cmdSellerOrders(ctx, args[1:])
	default:
		return fmt.Errorf("unknown seller command %q", args[0])
	}
}

func (a *app) cmdSellerLogin(ctx context.Context, args []string) error {

	if len(args) != 1 {
		return fmt.Errorf("usage: storefront seller login EMAIL")
	}

	email := args[0]

	if _, err := a.sellerSession.RequestOTP(ctx, email); err != nil {
		return err
	}

	fmt.Printf("An OTP has been sent to %s.\n", email)

	otp, err := prompt("OTP: ")
	if err != nil {
		return err
	}

	if _, err := a.sellerSession.Login(ctx, email, otp); err != nil {
		return err
	}

	state := a.sellerSession.State()
	fmt.Printf("Welcome back, %s.\n", state.Seller.SellerName)

	return nil
}

func (a *app) cmdSellerRegister(ctx context.Context) error {

	email, err := prompt("Email: ")
	if err != nil {
		return err
	}

	if _, err := a.sellerSession.RequestOTP(ctx, email); err != nil {
		return err
	}

	fmt.Printf("An OTP has been sent to %s.\n", email)

	otp, err := prompt("OTP: ")
	if err != nil {
		return err
	}

	name, err := prompt("Seller name: ")
	if err != nil {
		return err
	}

	mobile, err := prompt("Mobile: ")
	if err != nil {
		return err
	}

	gstin, err := prompt("GSTIN (optional): ")
	if err != nil {
		return err
	}

	req := &models.RegisterSellerRequest{
		SellerName: name,
		Email:      email,
		Mobile:     mobile,
		OTP:        otp,
		GSTIN:      gstin,
	}

	if err := a.validate.Struct(req); err != nil {
		return fmt.Errorf("invalid registration: %w", err)
	}

	seller, err := a.sellerSession.Register(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Registered %s. Check your email for the verification code, then run 'storefront seller verify OTP'.\n", seller.Email)

	return nil
}

func (a *app) cmdSellerProfile(ctx context.Context) error {

	state := a.sellerSession.State()
	if !state.Authenticated {
		return fmt.Errorf("not signed in as a seller")
	}

	s := state.Seller

	fmt.Printf("%s <%s>\n", s.SellerName, s.Email)

	if s.Mobile != "" {
		fmt.Printf("  mobile: %s\n", s.Mobile)
	}

	if s.GSTIN != "" {
		fmt.Printf("  GSTIN: %s\n", s.GSTIN)
	}

	if s.BusinessDetails != nil && s.BusinessDetails.BusinessName != "" {
		fmt.Printf("  business: %s\n", s.BusinessDetails.BusinessName)
	}

	fmt.Printf("  account status: %s\n", s.AccountStatus)

	return nil
}

func (a *app) cmdSellerReport(ctx context.Context) error {

	report, err := a.sellerSession.Report(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "total orders\t%d\n", report.TotalOrders)
	fmt.Fprintf(w, "cancelled orders\t%d\n", report.CanceledOrders)
	fmt.Fprintf(w, "total sales\t%d\n", report.TotalSales)
	fmt.Fprintf(w, "total earnings\t%d\n", report.TotalEarnings)
	fmt.Fprintf(w, "total refunds\t%d\n", report.TotalRefunds)
	fmt.Fprintf(w, "net earnings\t%d\n", report.NetEarnings)

	return w.Flush()
}

func (a *app) cmdSellerProducts(ctx context.Context, args []string) error {

	if len(args) == 0 {

		products, err := a.seller.Products(ctx)
		if err != nil {
			return err
		}

		printProducts(products)

		return nil
	}

	switch args[0] {
	case "add":
		return a.cmdSellerProductAdd(ctx)

	case "update":

		if len(args) != 2 {
			return fmt.Errorf("usage: storefront seller products update ID")
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}

		return a.cmdSellerProductUpdate(ctx, id)

	case "delete":

		if len(args) != 2 {
			return fmt.Errorf("usage: storefront seller products delete ID")
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid product id %q", args[1])
		}

		if err := a.seller.DeleteProduct(ctx, id); err != nil {
			return err
		}

		fmt.Printf("Deleted product %d.\n", id)

		return nil

	default:
		return fmt.Errorf("unknown seller products command %q", args[0])
	}
}

// cmdSellerProductAdd walks the product form the web portal rendered as a
// page.
func (a *app) cmdSellerProductAdd(ctx context.Context) error {

	req, err := promptProduct(&models.CreateProductRequest{})
	if err != nil {
		return err
	}

	product, err := a.seller.CreateProduct(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("Created product %d: %s\n", product.ID, product.Title)

	return nil
}

func (a *app) cmdSellerProductUpdate(ctx context.Context, id int64) error {

	req, err := promptProduct(&models.CreateProductRequest{})
	if err != nil {
		return err
	}

	product, err := a.seller.UpdateProduct(ctx, id, req)
	if err != nil {
		return err
	}

	fmt.Printf("Updated product %d: %s\n", product.ID, product.Title)

	return nil
}

func promptProduct(req *models.CreateProductRequest) (*models.CreateProductRequest, error) {

	var err error

	if req.Title, err = prompt("Title: "); err != nil {
		return nil, err
	}

	if req.Description, err = prompt("Description: "); err != nil {
		return nil, err
	}

	mrp, err := prompt("MRP price: ")
	if err != nil {
		return nil, err
	}

	if req.MRPPrice, err = strconv.Atoi(mrp); err != nil {
		return nil, fmt.Errorf("invalid MRP price %q", mrp)
	}

	selling, err := prompt("Selling price: ")
	if err != nil {
		return nil, err
	}

	if req.SellingPrice, err = strconv.Atoi(selling); err != nil {
		return nil, fmt.Errorf("invalid selling price %q", selling)
	}

	if req.Color, err = prompt("Color: "); err != nil {
		return nil, err
	}

	if req.Category, err = prompt("Category: "); err != nil {
		return nil, err
	}

	if req.Sizes, err = prompt("Sizes: "); err != nil {
		return nil, err
	}

	qty, err := prompt("Quantity: ")
	if err != nil {
		return nil, err
	}

	if req.Quantity, err = strconv.Atoi(qty); err != nil {
		return nil, fmt.Errorf("invalid quantity %q", qty)
	}

	return req, nil
}

func (a *app) cmdSellerOrders(ctx context.Context, args []string) error {

	if len(args) == 0 {

		orders, err := a.seller.Orders(ctx)
		if err != nil {
			return err
		}

		if len(orders) == 0 {
			fmt.Println("No orders yet.")

			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tITEMS\tTOTAL")

		for _, o := range orders {
			fmt.Fprintf(w, "%d\t%s\t%d\t%d\n", o.ID, o.OrderStatus, len(o.OrderItems), o.TotalSellingPrice)
		}

		return w.Flush()
	}

	switch args[0] {
	case "status":

		if len(args) != 3 {
			return fmt.Errorf("usage: storefront seller orders status ID STATUS")
		}

		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}

		status := models.OrderStatus(strings.ToUpper(args[2]))

		order, err := a.seller.UpdateOrderStatus(ctx, id, status)
		if err != nil {
			return err
		}

		fmt.Printf("Order %d is now %s.\n", order.ID, order.OrderStatus)

		return nil

	default:
		return fmt.Errorf("unknown seller orders command %q", args[0])
	}
}
