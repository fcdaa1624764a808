package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"tapsihan-storefront/internal/api"
	"tapsihan-storefront/internal/cartview"
	"tapsihan-storefront/internal/checkout"
	"tapsihan-storefront/internal/config"
	"tapsihan-storefront/internal/domain"
	"tapsihan-storefront/internal/session"
)

const usageText = `Usage: storefront <command> [flags]

Commands:
  register   create an account (-username, -email, -password)
  login      sign in and start a session (-email, -password)
  logout     end the current session
  profile    show the signed-in user
  update     patch profile fields (-username, -contact, -address)
  products   list the menu
  cart       show the cart and its total
  add        add a product to the cart (-product, -qty)
  plus       bump one cart line by one (-item)
  minus      drop one cart line by one (-item)
  checkout   place the order (-mop, -ref, -yes)
  orders     show placed items
`

func main() {
	logger := log.New(os.Stderr, "[storefront] ", 0)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usageText)
		os.Exit(2)
	}

	cfg := config.FromEnv()
	client := api.NewClient(cfg.APIEndpoint, nil, logger)
	sessions := session.NewStore(cfg.SessionPath)
	ctx := context.Background()

	cmd, args := os.Args[1], os.Args[2:]
	if err := run(ctx, cmd, args, client, sessions, logger); err != nil {
		logger.Fatalf("%s: %v", cmd, err)
	}
}

func run(ctx context.Context, cmd string, args []string, client *api.Client, sessions *session.Store, logger *log.Logger) error {
	switch cmd {
	case "register":
		return runRegister(ctx, args, client, sessions)
	case "login":
		return runLogin(ctx, args, client, sessions)
	case "logout":
		return sessions.Clear()
	case "profile":
		return runProfile(ctx, client, sessions)
	case "update":
		return runUpdate(ctx, args, client, sessions)
	case "products":
		return runProducts(ctx, client)
	case "cart":
		return runCart(ctx, client, sessions, logger)
	case "add":
		return runAdd(ctx, args, client, sessions)
	case "plus":
		return runAdjust(ctx, args, client, sessions, logger, +1)
	case "minus":
		return runAdjust(ctx, args, client, sessions, logger, -1)
	case "checkout":
		return runCheckout(ctx, args, client, sessions, logger)
	case "orders":
		return runOrders(ctx, client, sessions)
	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runRegister(ctx context.Context, args []string, client *api.Client, sessions *session.Store) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	u, err := client.Register(ctx, api.RegisterInput{Username: *username, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	if err := sessions.Init(u.ID); err != nil {
		return err
	}
	fmt.Printf("registered %s (%s)\n", u.Username, u.Email)
	return nil
}

func runLogin(ctx context.Context, args []string, client *api.Client, sessions *session.Store) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	u, err := client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := sessions.Init(u.ID); err != nil {
		return err
	}
	fmt.Printf("welcome back, %s\n", u.Username)
	return nil
}

func runProfile(ctx context.Context, client *api.Client, sessions *session.Store) error {
	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	u, err := client.User(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Printf("username: %s\nemail:    %s\ncontact:  %s\naddress:  %s\n", u.Username, u.Email, u.Contact, u.Address)
	return nil
}

func runUpdate(ctx context.Context, args []string, client *api.Client, sessions *session.Store) error {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	contact := fs.String("contact", "", "contact number")
	address := fs.String("address", "", "delivery address")
	fs.Parse(args)

	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	u, err := client.UpdateProfile(ctx, userID, api.ProfileInput{Username: *username, Contact: *contact, Address: *address})
	if err != nil {
		return err
	}
	fmt.Printf("profile saved for %s\n", u.Username)
	return nil
}

func runProducts(ctx context.Context, client *api.Client) error {
	products, err := client.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%-36s  %-12s  PHP %8s  stocks %d\n", p.ID, p.ProductName, p.Price.StringFixed(2), p.Stocks)
	}
	return nil
}

func runCart(ctx context.Context, client *api.Client, sessions *session.Store, logger *log.Logger) error {
	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	view := cartview.NewManager(client, userID, logger)
	if _, err := view.Refresh(ctx); err != nil {
		return err
	}
	cart, total := view.Snapshot()
	printCart(cart, total)
	return nil
}

func runAdd(ctx context.Context, args []string, client *api.Client, sessions *session.Store) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	productID := fs.String("product", "", "product id")
	qty := fs.Int("qty", 1, "quantity")
	fs.Parse(args)

	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	cart, err := client.AddToCart(ctx, userID, *productID, *qty)
	if err != nil {
		var stock *domain.StockExceededError
		if errors.As(err, &stock) {
			return fmt.Errorf("not enough stock, %d remaining", stock.Remaining)
		}
		return err
	}
	printCart(cart, cart.Total())
	return nil
}

func runAdjust(ctx context.Context, args []string, client *api.Client, sessions *session.Store, logger *log.Logger, delta int) error {
	fs := flag.NewFlagSet("adjust", flag.ExitOnError)
	itemID := fs.String("item", "", "cart item id")
	fs.Parse(args)

	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	view := cartview.NewManager(client, userID, logger)
	if _, err := view.Refresh(ctx); err != nil {
		return err
	}
	if _, err := view.Adjust(ctx, *itemID, delta); err != nil {
		var stock *domain.StockExceededError
		switch {
		case errors.As(err, &stock):
			return fmt.Errorf("not enough stock, %d remaining", stock.Remaining)
		case errors.Is(err, domain.ErrQuantityTooLow):
			return errors.New("quantity cannot go below 1")
		}
		return err
	}
	cart, total := view.Snapshot()
	printCart(cart, total)
	return nil
}

func runCheckout(ctx context.Context, args []string, client *api.Client, sessions *session.Store, logger *log.Logger) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	mop := fs.String("mop", "", `mode of payment: "Cash on Delivery" or "GCash"`)
	ref := fs.String("ref", "", "GCash reference number")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	fs.Parse(args)

	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	user, err := client.User(ctx, userID)
	if err != nil {
		return err
	}

	view := cartview.NewManager(client, userID, logger)
	if _, err := view.Refresh(ctx); err != nil {
		return err
	}

	confirm := promptConfirm
	if *yes {
		confirm = func(context.Context) bool { return true }
	}
	flow := checkout.NewOrchestrator(client, view, userID, confirm, logger)
	flow.SelectMethod(domain.PaymentMethod(*mop))

	outcome, err := flow.PlaceOrder(ctx, user)
	if err != nil {
		return checkoutError(err)
	}
	if outcome == checkout.OutcomeAwaitingReference {
		if *ref == "" {
			return errors.New("GCash needs a reference number, rerun with -ref")
		}
		flow.EnterReference(*ref)
		outcome, err = flow.PlaceOrder(ctx, user)
		if err != nil {
			return checkoutError(err)
		}
	}

	switch outcome {
	case checkout.OutcomePlaced:
		cart, total := view.Snapshot()
		fmt.Println("order placed")
		printCart(cart, total)
	case checkout.OutcomeNone:
		fmt.Println("order not placed")
	}
	return nil
}

func checkoutError(err error) error {
	switch {
	case errors.Is(err, checkout.ErrNoPaymentMethod):
		return errors.New(`pick a mode of payment with -mop "Cash on Delivery" or -mop GCash`)
	case errors.Is(err, checkout.ErrIncompleteProfile):
		return errors.New("add a contact number or address first: storefront update -contact ... -address ...")
	case errors.Is(err, checkout.ErrEmptyCart):
		return errors.New("cart has nothing to check out")
	case errors.Is(err, checkout.ErrInvalidReference):
		return errors.New("that reference number does not look like a GCash reference")
	}
	return err
}

func runOrders(ctx context.Context, client *api.Client, sessions *session.Store) error {
	userID, err := sessions.Current()
	if err != nil {
		return err
	}
	cart, err := client.Cart(ctx, userID)
	if err != nil {
		return err
	}
	for _, item := range cart.Items {
		if item.Status == domain.ItemStatusCart {
			continue
		}
		fmt.Printf("%-36s  %-12s  x%d  %-10s  %s  ref %s\n",
			item.ID, item.Product.ProductName, item.Quantity, item.Status, item.MOP, item.PaymentRef)
	}
	return nil
}

func promptConfirm(_ context.Context) bool {
	fmt.Print("place this order? [y/N] ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func printCart(cart *domain.Cart, total decimal.Decimal) {
	if cart == nil {
		fmt.Println("cart is empty")
		return
	}
	pending := 0
	for _, item := range cart.Items {
		if item.Status != domain.ItemStatusCart {
			continue
		}
		pending++
		fmt.Printf("%-36s  %-12s  x%d  PHP %8s\n",
			item.ID, item.Product.ProductName, item.Quantity, item.Product.Price.StringFixed(2))
	}
	if pending == 0 {
		fmt.Println("cart is empty")
		return
	}
	fmt.Printf("total: PHP %s\n", total.StringFixed(2))
}
