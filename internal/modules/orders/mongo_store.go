package orders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const ordersCollection = "orders"

// MongoStore keeps each order as one document with its items and events embedded.
type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(ordersCollection)}
}

// ConnectMongo dials uri and verifies the connection.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	return err
}

type orderDoc struct {
	ID              string               `bson:"_id"`
	UserID          string               `bson:"userId"`
	CustomerName    string               `bson:"customerName"`
	CustomerEmail   string               `bson:"customerEmail"`
	Status          string               `bson:"status"`
	Currency        string               `bson:"currency"`
	Total           primitive.Decimal128 `bson:"total"`
	ShippingAddress string               `bson:"shippingAddress"`
	PaymentMethod   string               `bson:"paymentMethod"`
	Items           []itemDoc            `bson:"items"`
	Events          []eventDoc           `bson:"events"`
	CreatedAt       time.Time            `bson:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt"`
}

type itemDoc struct {
	ID          string               `bson:"id"`
	ProductID   string               `bson:"productId"`
	ProductName string               `bson:"productName"`
	Image       string               `bson:"image,omitempty"`
	Size        string               `bson:"size,omitempty"`
	UnitPrice   primitive.Decimal128 `bson:"unitPrice"`
	Quantity    int                  `bson:"quantity"`
	LineTotal   primitive.Decimal128 `bson:"lineTotal"`
}

type eventDoc struct {
	ID          string    `bson:"id"`
	ActorUserID string    `bson:"actorUserId"`
	Action      string    `bson:"action"`
	FromStatus  string    `bson:"from"`
	ToStatus    string    `bson:"to"`
	Note        *string   `bson:"note,omitempty"`
	CreatedAt   time.Time `bson:"createdAt"`
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.StringFixed(2))
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

func docFromOrder(o Order) orderDoc {
	doc := orderDoc{
		ID:              o.ID,
		UserID:          o.UserID,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		Status:          o.Status,
		Currency:        o.Currency,
		Total:           toDecimal128(o.Total),
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Items:           make([]itemDoc, 0, len(o.Items)),
		Events:          make([]eventDoc, 0, len(o.Events)),
		CreatedAt:       o.CreatedAt.UTC(),
		UpdatedAt:       o.UpdatedAt.UTC(),
	}
	for _, it := range o.Items {
		doc.Items = append(doc.Items, itemDoc{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Image:       it.Image,
			Size:        it.Size,
			UnitPrice:   toDecimal128(it.UnitPrice),
			Quantity:    it.Quantity,
			LineTotal:   toDecimal128(it.LineTotal),
		})
	}
	for _, ev := range o.Events {
		doc.Events = append(doc.Events, eventDocFrom(ev))
	}
	return doc
}

func eventDocFrom(ev OrderEvent) eventDoc {
	return eventDoc{
		ID:          ev.ID,
		ActorUserID: ev.ActorUserID,
		Action:      ev.Action,
		FromStatus:  ev.FromStatus,
		ToStatus:    ev.ToStatus,
		Note:        ev.Note,
		CreatedAt:   ev.CreatedAt.UTC(),
	}
}

// toOrder rebuilds an Order. Events come back newest first, as GormStore returns them.
func (d orderDoc) toOrder() Order {
	o := Order{
		ID:              d.ID,
		UserID:          d.UserID,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		Status:          d.Status,
		Currency:        d.Currency,
		Total:           fromDecimal128(d.Total),
		ShippingAddress: d.ShippingAddress,
		PaymentMethod:   d.PaymentMethod,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	for i, it := range d.Items {
		o.Items = append(o.Items, OrderItem{
			ID:          it.ID,
			OrderID:     d.ID,
			Position:    i,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Image:       it.Image,
			Size:        it.Size,
			UnitPrice:   fromDecimal128(it.UnitPrice),
			Quantity:    it.Quantity,
			LineTotal:   fromDecimal128(it.LineTotal),
		})
	}
	for i := len(d.Events) - 1; i >= 0; i-- {
		ev := d.Events[i]
		o.Events = append(o.Events, OrderEvent{
			ID:          ev.ID,
			OrderID:     d.ID,
			ActorUserID: ev.ActorUserID,
			Action:      ev.Action,
			FromStatus:  ev.FromStatus,
			ToStatus:    ev.ToStatus,
			Note:        ev.Note,
			CreatedAt:   ev.CreatedAt,
		})
	}
	return o
}

func (s *MongoStore) Create(ctx context.Context, o *Order) error {
	_, err := s.coll.InsertOne(ctx, docFromOrder(*o))
	return err
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{"userId": userID}, opts)
}

func (s *MongoStore) Get(ctx context.Context, id string) (Order, error) {
	var doc orderDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	return doc.toOrder(), nil
}

func adminFilter(in AdminListParams) bson.M {
	filter := bson.M{}
	if status := strings.TrimSpace(in.Status); status != "" {
		filter["status"] = status
	}
	if q := strings.TrimSpace(in.Q); q != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"_id": rx},
			bson.M{"customerEmail": rx},
			bson.M{"customerName": rx},
		}
	}
	return filter
}

func (s *MongoStore) AdminList(ctx context.Context, in AdminListParams) (AdminListResult, error) {
	in = in.normalized()
	filter := adminFilter(in)

	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return AdminListResult{}, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((in.Page - 1) * in.PageSize)).
		SetLimit(int64(in.PageSize))
	items, err := s.find(ctx, filter, opts)
	if err != nil {
		return AdminListResult{}, err
	}
	return AdminListResult{Items: items, Total: total}, nil
}

func (s *MongoStore) UpdateStatus(ctx context.Context, id string, decide func(Order) (string, error), ev OrderEvent) (Order, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	from := current.Status
	to, err := decide(current)
	if err != nil {
		return Order{}, err
	}

	now := time.Now().UTC()
	ev.OrderID = id
	ev.FromStatus = from
	ev.ToStatus = to
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = now
	}

	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{
			"$set":  bson.M{"status": to, "updatedAt": now},
			"$push": bson.M{"events": eventDocFrom(ev)},
		},
	)
	if err != nil {
		return Order{}, err
	}
	if res.MatchedCount == 0 {
		return Order{}, ErrStatusChanged
	}
	return s.Get(ctx, id)
}

func (s *MongoStore) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	var err error

	if out.Orders, err = s.coll.CountDocuments(ctx, bson.M{}); err != nil {
		return Summary{}, err
	}
	if out.Pending, err = s.coll.CountDocuments(ctx, bson.M{"status": StatusPending}); err != nil {
		return Summary{}, err
	}

	cur, err := s.coll.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$ne": StatusCancelled}}}},
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}}},
	})
	if err != nil {
		return Summary{}, err
	}
	var groups []struct {
		Revenue primitive.Decimal128 `bson:"revenue"`
	}
	if err := cur.All(ctx, &groups); err != nil {
		return Summary{}, err
	}
	out.Revenue = decimal.Zero
	if len(groups) > 0 {
		out.Revenue = fromDecimal128(groups[0].Revenue).Round(2)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).SetLimit(recentLimit)
	if out.Recent, err = s.find(ctx, bson.M{}, opts); err != nil {
		return Summary{}, err
	}
	return out, nil
}

func (s *MongoStore) find(ctx context.Context, filter any, opts *options.FindOptions) ([]Order, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	var docs []orderDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toOrder())
	}
	return out, nil
}
