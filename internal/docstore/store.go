// Package docstore persists the catalog and orders in MongoDB using the same
// collection layout as the original storefront backend (menuitems, orders).
package docstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hannas-kitchen/internal/config"
	"hannas-kitchen/internal/logger"
	"hannas-kitchen/internal/models"
	"hannas-kitchen/internal/storage"
	"hannas-kitchen/internal/validation"
)

const (
	menuItemsCollection = "menuitems"
	ordersCollection    = "orders"
)

type menuItemDoc struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Name     string             `bson:"name"`
	Category string             `bson:"category"`
	Price    float64            `bson:"price"`
	Tags     []string           `bson:"tags"`
	ImageURL string             `bson:"imageUrl"`
}

type orderLineDoc struct {
	ItemID   primitive.ObjectID `bson:"itemId"`
	Quantity int                `bson:"quantity"`
}

type orderDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Items        []orderLineDoc     `bson:"items"`
	TotalAmount  float64            `bson:"totalAmount"`
	CustomerName string             `bson:"customerName"`
	Phone        string             `bson:"phone"`
	Address      string             `bson:"address"`
	PlacedAt     time.Time          `bson:"placedAt"`
}

type Store struct {
	client *mongo.Client
	items  *mongo.Collection
	orders *mongo.Collection
	logger *logger.Logger
}

var _ storage.Store = (*Store)(nil)

// New connects to MongoDB and verifies the connection with a ping
func New(ctx context.Context, cfg config.MongoConfig, log *logger.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, storage.Unavailable("connect mongo", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, storage.Unavailable("ping mongo", err)
	}

	db := client.Database(cfg.Database)
	return &Store{
		client: client,
		items:  db.Collection(menuItemsCollection),
		orders: db.Collection(ordersCollection),
		logger: log,
	}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ListItems(ctx context.Context) ([]models.MenuItem, error) {
	cur, err := s.items.Find(ctx, bson.D{})
	if err != nil {
		return nil, storage.Unavailable("find menu items", err)
	}
	var docs []menuItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storage.Unavailable("decode menu items", err)
	}

	items := make([]models.MenuItem, 0, len(docs))
	for _, doc := range docs {
		items = append(items, doc.toModel())
	}
	return items, nil
}

func (s *Store) CreateItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error) {
	doc := menuItemDoc{
		Name:     item.Name,
		Category: string(item.Category),
		Price:    item.Price,
		Tags:     item.Tags,
		ImageURL: item.ImageURL,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}

	res, err := s.items.InsertOne(ctx, doc)
	if err != nil {
		return models.MenuItem{}, storage.Unavailable("insert menu item", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return models.MenuItem{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toModel(), nil
}

func (s *Store) GetItems(ctx context.Context, ids []string) (map[string]models.MenuItem, error) {
	found := make(map[string]models.MenuItem, len(ids))

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return found, nil
	}

	cur, err := s.items.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, storage.Unavailable("find menu items by id", err)
	}
	var docs []menuItemDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storage.Unavailable("decode menu items", err)
	}
	for _, doc := range docs {
		item := doc.toModel()
		found[item.ID] = item
	}
	return found, nil
}

// CreateOrder inserts the order as one document. Item ids must be ObjectId
// hex strings since they are stored as references.
func (s *Store) CreateOrder(ctx context.Context, order models.Order) (models.Order, error) {
	lines := make([]orderLineDoc, 0, len(order.Items))
	for i, line := range order.Items {
		oid, err := primitive.ObjectIDFromHex(line.ItemID)
		if err != nil {
			return models.Order{}, validation.ValidationError{
				Field:   fmt.Sprintf("items[%d].itemId", i),
				Message: "item id must be an ObjectId",
			}
		}
		lines = append(lines, orderLineDoc{ItemID: oid, Quantity: line.Quantity})
	}

	doc := orderDoc{
		Items:        lines,
		TotalAmount:  order.TotalAmount,
		CustomerName: order.CustomerName,
		Phone:        order.Phone,
		Address:      order.Address,
		PlacedAt:     order.PlacedAt,
	}

	res, err := s.orders.InsertOne(ctx, doc)
	if err != nil {
		return models.Order{}, storage.Unavailable("insert order", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = oid.Hex()
	}
	return order, nil
}

func (s *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	cur, err := s.orders.Find(ctx, bson.D{})
	if err != nil {
		return nil, storage.Unavailable("find orders", err)
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, storage.Unavailable("decode orders", err)
	}

	orders := make([]models.Order, 0, len(docs))
	for _, doc := range docs {
		orders = append(orders, doc.toModel())
	}
	return orders, nil
}

func (d menuItemDoc) toModel() models.MenuItem {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.MenuItem{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Category: models.Category(d.Category),
		Price:    d.Price,
		Tags:     tags,
		ImageURL: d.ImageURL,
	}
}

func (d orderDoc) toModel() models.Order {
	lines := make([]models.OrderLine, 0, len(d.Items))
	for _, line := range d.Items {
		lines = append(lines, models.OrderLine{ItemID: line.ItemID.Hex(), Quantity: line.Quantity})
	}
	return models.Order{
		ID:           d.ID.Hex(),
		Items:        lines,
		TotalAmount:  d.TotalAmount,
		CustomerName: d.CustomerName,
		Phone:        d.Phone,
		Address:      d.Address,
		PlacedAt:     d.PlacedAt.UTC(),
	}
}
