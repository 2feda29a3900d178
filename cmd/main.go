package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"hannas-kitchen/internal/admin"
	"hannas-kitchen/internal/apiclient"
	"hannas-kitchen/internal/config"
	"hannas-kitchen/internal/database"
	"hannas-kitchen/internal/docstore"
	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/messaging"
	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/notify"
	"hannas-kitchen/internal/server"
	"hannas-kitchen/internal/services/catalog"
	"hannas-kitchen/internal/services/notification"
	"hannas-kitchen/internal/services/order"
	"hannas-kitchen/internal/storage"
	"hannas-kitchen/internal/storage/memory"
	"hannas-kitchen/internal/storefront"
	"hannas-kitchen/internal/uploads"
)

func main() {
	var (
		mode     = flag.String("mode", "", "Service mode (api-server, notification-subscriber, migrate, admin-orders, add-item, place-order)")
		port     = flag.Int("port", 0, "HTTP port (overrides PORT)")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")

		itemName     = flag.String("name", "", "Item name (add-item)")
		itemPrice    = flag.String("price", "", "Item price (add-item)")
		itemCategory = flag.String("category", "", fmt.Sprintf("Item category (add-item), one of %v", models.AdminFormCategories))
		itemTags     = flag.String("tags", "", "Comma-separated tags (add-item)")
		itemImage    = flag.String("image", "", "Path to an image file (add-item)")

		orderItems   = flag.String("items", "", `Items to order as "name=qty,name" (place-order)`)
		customerName = flag.String("customer-name", "", "Customer name (place-order)")
		phone        = flag.String("phone", "", "Customer phone (place-order)")
		address      = flag.String("address", "", "Delivery address (place-order)")
		lat          = flag.Float64("lat", 0, "Latitude used to look up the address (place-order)")
		lng          = flag.Float64("lng", 0, "Longitude used to look up the address (place-order)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "api-server":
		err = runAPIServer(ctx, cfg, log)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	case "migrate":
		err = runMigrate(ctx, cfg, log)
	case "admin-orders":
		err = runAdminOrders(ctx, cfg)
	case "add-item":
		err = runAddItem(ctx, cfg, admin.ItemForm{
			Name:     *itemName,
			Price:    *itemPrice,
			Category: *itemCategory,
			Tags:     *itemTags,
		}, *itemImage)
	case "place-order":
		var locator storefront.Locator
		if *lat != 0 || *lng != 0 {
			locator = storefront.FixedLocator{Lat: *lat, Lng: *lng}
		}
		err = runPlaceOrder(ctx, cfg, *orderItems, storefront.CustomerDetails{
			CustomerName: *customerName,
			Phone:        *phone,
			Address:      *address,
		}, locator)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}
	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// openStore connects to the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Store, error) {
	requestID := logger.GenerateRequestID()

	switch cfg.Store.Driver {
	case config.StoreMongo:
		docs, err := docstore.New(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		return docs, nil
	case config.StoreMemory:
		log.Info("store_selected", "Using in-memory store, data is lost on restart", requestID, nil)
		return memory.New(), nil
	default:
		db, err := database.New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close(context.Background())
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		return db, nil
	}
}

func openUploads(cfg *config.Config) (uploads.Store, string, error) {
	if cfg.Uploads.Driver == config.UploadsS3 {
		s3Store, err := uploads.NewS3(cfg.Uploads.S3Bucket, cfg.Uploads.Region)
		if err != nil {
			return nil, "", err
		}
		return s3Store, "", nil
	}
	return uploads.NewDisk(cfg.Uploads.Dir), cfg.Uploads.Dir, nil
}

// runAPIServer serves /api until a shutdown signal arrives.
func runAPIServer(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	requestID := logger.GenerateRequestID()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	images, uploadsDir, err := openUploads(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize uploads: %w", err)
	}

	feed := notify.NewFeed(log)
	notifiers := notify.NewFanout(log, feed)

	if cfg.MessagingEnabled() {
		conn, err := messaging.New(ctx, cfg.RabbitMQURL(), log)
		if err != nil {
			return fmt.Errorf("failed to initialize messaging: %w", err)
		}
		defer conn.Close()
		notifiers.Add(messaging.NewPublisher(conn, log))
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
	}

	if cfg.TelegramEnabled() {
		tg, err := notify.NewTelegram(cfg.Telegram.MessageToken, cfg.Telegram.AdminChatID)
		if err != nil {
			log.Error("telegram_failed", "Telegram notifier disabled", requestID, err, nil)
		} else {
			notifiers.Add(tg)
		}
	}

	catalogService := catalog.NewService(store, images, log)
	orderService := order.NewService(store, store, notifiers, cfg.Server.StrictOrders, log)

	router := server.NewRouter(server.Options{
		UploadsDir: uploadsDir,
		Store:      store,
		API: []server.Routes{
			catalog.NewHandler(catalogService, log),
			order.NewHandler(orderService, feed, log),
		},
	}, log)

	return server.Run(ctx, cfg.Server.Port, router, log)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	if !cfg.MessagingEnabled() {
		return fmt.Errorf("RABBITMQ_HOST is required for notification-subscriber")
	}
	conn, err := messaging.New(ctx, cfg.RabbitMQURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	err = notification.NewSubscriber(consumer, log).Start(ctx)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runMigrate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(context.Background())
	return db.RunMigrations(ctx)
}

func runAdminOrders(ctx context.Context, cfg *config.Config) error {
	views, err := admin.NewClient(apiclient.New(cfg.Client.APIBaseURL, nil)).LoadOrders(ctx)
	if err != nil {
		return err
	}
	admin.Render(os.Stdout, views)
	return nil
}

func runAddItem(ctx context.Context, cfg *config.Config, form admin.ItemForm, imagePath string) error {
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		form.Image = &apiclient.Image{
			Filename:    filepath.Base(imagePath),
			ContentType: mime.TypeByExtension(filepath.Ext(imagePath)),
			Body:        f,
		}
	}

	if err := admin.NewClient(apiclient.New(cfg.Client.APIBaseURL, nil)).AddItem(ctx, form); err != nil {
		return err
	}
	fmt.Println("Item added!")
	return nil
}

// runPlaceOrder drives a storefront session from the command line.
func runPlaceOrder(ctx context.Context, cfg *config.Config, items string, details storefront.CustomerDetails, locator storefront.Locator) error {
	var geocoder storefront.Geocoder
	if cfg.Geocode.APIKey != "" {
		geocoder = storefront.NewGoogleGeocoder(cfg.Geocode.APIKey)
	}
	session := storefront.NewSession(apiclient.New(cfg.Client.APIBaseURL, nil), locator, geocoder)

	if err := session.LoadMenu(ctx); err != nil {
		return err
	}
	session.Dispatch(storefront.SetDetails{Details: details})

	wanted, err := parseOrderItems(items)
	if err != nil {
		return err
	}
	for _, w := range wanted {
		item, ok := findItem(session.State().Menu, w.name)
		if !ok {
			return fmt.Errorf("no menu item named %q", w.name)
		}
		for i := 0; i < w.qty; i++ {
			session.Dispatch(storefront.AddToCart{Item: item})
		}
	}

	if locator != nil {
		address, err := session.UseMyLocation(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			fmt.Printf("Address: %s\n", address)
		}
	}
	if url := session.MapURL(); url != "" {
		fmt.Printf("Map: %s\n", url)
	}

	st := session.State()
	fmt.Printf("Total: ₹%s\n", models.FormatAmount(st.Cart.Total()))
	if err := session.SubmitOrder(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Order failed!")
		return err
	}
	fmt.Println(session.Toast())
	return nil
}

type wantedItem struct {
	name string
	qty  int
}

func parseOrderItems(raw string) ([]wantedItem, error) {
	var out []wantedItem
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, qtyStr, found := strings.Cut(part, "=")
		qty := 1
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(qtyStr))
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid quantity for %q", name)
			}
			qty = n
		}
		out = append(out, wantedItem{name: strings.TrimSpace(name), qty: qty})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("--items is required")
	}
	return out, nil
}

func findItem(menu []models.MenuItem, name string) (models.MenuItem, bool) {
	for _, item := range menu {
		if strings.EqualFold(item.Name, name) {
			return item, true
		}
	}
	return models.MenuItem{}, false
}
