// Command smoke runs a read-only smoke check against a live PawMart API:
// login, profile, catalog, cart and booking reads. It exits non-zero when any
// check fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pawmart/pawmart-go/pkg/pawmart"
)

type check struct {
	name string
	run  func(ctx context.Context, client *pawmart.Client) error
}

func main() {
	_ = godotenv.Load()

	var (
		baseURL = flag.String("base-url", os.Getenv("PAWMART_BASE_URL"), "API base URL")
		email   = flag.String("email", os.Getenv("PAWMART_EMAIL"), "login email")
		pass    = flag.String("password", os.Getenv("PAWMART_PASSWORD"), "login password")
		timeout = flag.Duration("timeout", 60*time.Second, "overall timeout")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *email == "" || *pass == "" {
		fmt.Fprintln(os.Stderr, "PAWMART_EMAIL and PAWMART_PASSWORD are required")
		os.Exit(2)
	}

	zapConfig := zap.NewProductionConfig()
	if *verbose {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zl, err := zapConfig.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = zl.Sync() }()

	client, err := pawmart.NewClient(&pawmart.ClientOptions{
		BaseURL: *baseURL,
		Logger:  pawmart.NewZapLogger(zl),
	})
	if err != nil {
		zl.Fatal("failed to create client", zap.Error(err))
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	profile, err := client.Auth.Login(ctx, *email, *pass)
	if err != nil {
		zl.Fatal("login failed", zap.Error(err))
	}
	zl.Info("logged in", zap.String("email", profile.Email))
	defer client.Auth.Logout(context.Background())

	checks := []check{
		{"products.list", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Products.List(ctx, &pawmart.ProductListParams{PageSize: 5})
			return err
		}},
		{"cart.get", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Cart.Get(ctx)
			return err
		}},
		{"addresses.list", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Addresses.List(ctx)
			return err
		}},
		{"addresses.provinces", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Addresses.Provinces(ctx)
			return err
		}},
		{"orders.list", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Orders.List(ctx)
			return err
		}},
		{"appointments.services", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Appointments.Services(ctx)
			return err
		}},
		{"adoptions.pets", func(ctx context.Context, c *pawmart.Client) error {
			_, err := c.Adoptions.ListPets(ctx, nil)
			return err
		}},
	}

	failed := 0
	for _, ck := range checks {
		start := time.Now()
		err := ck.run(ctx, client)
		if err != nil {
			failed++
			zl.Error("check failed", zap.String("check", ck.name), zap.Error(err))
			continue
		}
		zl.Info("check passed", zap.String("check", ck.name), zap.Duration("took", time.Since(start)))
	}

	if failed > 0 {
		zl.Error("smoke check failed", zap.Int("failed", failed), zap.Int("total", len(checks)))
		os.Exit(1)
	}
	zl.Info("smoke check passed", zap.Int("total", len(checks)))
}
