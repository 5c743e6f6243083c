package repositories

import (
	"context"
	"delivery-tracking-service/internal/domain"
	"delivery-tracking-service/internal/platform/obs"
	"delivery-tracking-service/internal/ports"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB-backed implementation of ports.Store. Documents use string UUIDs as
// _id so ids look the same across backends.
type MongoStore struct {
	client     *mongo.Client
	businesses *mongo.Collection
	customers  *mongo.Collection
	packages   *mongo.Collection
	now        func() time.Time
}

type businessDoc struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	SiteURL   string    `bson:"site_url"`
	CreatedAt time.Time `bson:"created_at"`
}

type addressDoc struct {
	Street string   `bson:"street"`
	Number int      `bson:"number"`
	City   string   `bson:"city"`
	Lat    *float64 `bson:"lat,omitempty"`
	Lon    *float64 `bson:"lon,omitempty"`
}

type customerDoc struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	Email     string     `bson:"email"`
	Address   addressDoc `bson:"address"`
	CreatedAt time.Time  `bson:"created_at"`
}

type pathPointDoc struct {
	Lat float64 `bson:"lat"`
	Lon float64 `bson:"lon"`
}

type packageDoc struct {
	ID         string         `bson:"_id"`
	ProdID     string         `bson:"prod_id"`
	Name       string         `bson:"name"`
	StartDate  int64          `bson:"start_date"`
	ETA        int64          `bson:"eta"`
	Status     string         `bson:"status"`
	BusinessID string         `bson:"business_id"`
	CustomerID string         `bson:"customer_id"`
	Path       []pathPointDoc `bson:"path"`
	CreatedAt  time.Time      `bson:"created_at"`
	UpdatedAt  time.Time      `bson:"updated_at"`
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	db := client.Database(database)
	return &MongoStore{
		client:     client,
		businesses: db.Collection("businesses"),
		customers:  db.Collection("customers"),
		packages:   db.Collection("packages"),
		now:        time.Now,
	}
}

// EnsureIndexes creates the unique and lookup indexes. Safe to run repeatedly.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{s.businesses, []mongo.IndexModel{
			{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "site_url", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.customers, []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		}},
		{s.packages, []mongo.IndexModel{
			{Keys: bson.D{{Key: "business_id", Value: 1}}},
			{Keys: bson.D{{Key: "customer_id", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}},
	}

	for _, ix := range indexes {
		if _, err := ix.coll.Indexes().CreateMany(ctx, ix.models); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", ix.coll.Name(), err)
		}
	}

	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongoConflict converts a duplicate key error into a *ports.ConflictError
// naming the field whose index rejected the write.
func mongoConflict(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}

	msg := err.Error()
	for _, field := range []string{"site_url", "name", "email"} {
		if strings.Contains(msg, "index: "+field+"_1") {
			return &ports.ConflictError{Field: field}
		}
	}
	return &ports.ConflictError{Field: "id"}
}

func (s *MongoStore) CreateBusiness(ctx context.Context, b *domain.Business) (err error) {
	defer obs.Time(ctx, "mongo.CreateBusiness")(&err)

	doc := businessDoc{ID: b.ID, Name: b.Name, SiteURL: b.SiteURL, CreatedAt: b.CreatedAt}
	if _, err := s.businesses.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create business: %w", mongoConflict(err))
	}
	return nil
}

func (s *MongoStore) GetBusiness(ctx context.Context, id string) (_ *domain.Business, err error) {
	defer obs.Time(ctx, "mongo.GetBusiness")(&err)

	var doc businessDoc
	err = s.businesses.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get business: %w", err)
	}

	return doc.toDomain(), nil
}

func (s *MongoStore) ListBusinesses(ctx context.Context) (_ []*domain.Business, err error) {
	defer obs.Time(ctx, "mongo.ListBusinesses")(&err)

	cur, err := s.businesses.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list businesses: %w", err)
	}

	var docs []businessDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list businesses: decode: %w", err)
	}

	out := make([]*domain.Business, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (s *MongoStore) CreateCustomer(ctx context.Context, c *domain.Customer) (err error) {
	defer obs.Time(ctx, "mongo.CreateCustomer")(&err)

	doc := customerDoc{
		ID:    c.ID,
		Name:  c.Name,
		Email: c.Email,
		Address: addressDoc{
			Street: c.Address.Street,
			Number: c.Address.Number,
			City:   c.Address.City,
			Lat:    c.Address.Lat,
			Lon:    c.Address.Lon,
		},
		CreatedAt: c.CreatedAt,
	}
	if _, err := s.customers.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create customer: %w", mongoConflict(err))
	}
	return nil
}

func (s *MongoStore) GetCustomer(ctx context.Context, id string) (_ *domain.Customer, err error) {
	defer obs.Time(ctx, "mongo.GetCustomer")(&err)

	var doc customerDoc
	err = s.customers.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}

	return doc.toDomain(), nil
}

func (s *MongoStore) ListCustomers(ctx context.Context) (_ []*domain.Customer, err error) {
	defer obs.Time(ctx, "mongo.ListCustomers")(&err)

	return s.findCustomers(ctx, bson.M{})
}

func (s *MongoStore) GetCustomers(ctx context.Context, ids []string) (_ map[string]*domain.Customer, err error) {
	defer obs.Time(ctx, "mongo.GetCustomers")(&err)

	out := make(map[string]*domain.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	customers, err := s.findCustomers(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, c := range customers {
		out[c.ID] = c
	}
	return out, nil
}

func (s *MongoStore) findCustomers(ctx context.Context, filter bson.M) ([]*domain.Customer, error) {
	cur, err := s.customers.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find customers: %w", err)
	}

	var docs []customerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("find customers: decode: %w", err)
	}

	out := make([]*domain.Customer, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (s *MongoStore) CreatePackage(ctx context.Context, p *domain.Package) (err error) {
	defer obs.Time(ctx, "mongo.CreatePackage")(&err)

	// path must be an array, never null, for $push to apply.
	path := make([]pathPointDoc, 0, len(p.Path))
	for _, c := range p.Path {
		path = append(path, pathPointDoc{Lat: c.Lat, Lon: c.Lon})
	}

	doc := packageDoc{
		ID:         p.ID,
		ProdID:     p.ProdID,
		Name:       p.Name,
		StartDate:  p.StartDate,
		ETA:        p.ETA,
		Status:     string(p.Status),
		BusinessID: p.BusinessID,
		CustomerID: p.CustomerID,
		Path:       path,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	if _, err := s.packages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create package: %w", mongoConflict(err))
	}
	return nil
}

func (s *MongoStore) GetPackage(ctx context.Context, id string) (_ *domain.Package, err error) {
	defer obs.Time(ctx, "mongo.GetPackage")(&err)

	var doc packageDoc
	err = s.packages.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ports.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}

	return doc.toDomain(), nil
}

func (s *MongoStore) ListPackagesByBusiness(ctx context.Context, businessID string) (_ []*domain.Package, err error) {
	defer obs.Time(ctx, "mongo.ListPackagesByBusiness")(&err)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.packages.Find(ctx, bson.M{"business_id": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	var docs []packageDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list packages: decode: %w", err)
	}

	out := make([]*domain.Package, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// AppendPathPoint pushes the point only when no element of path lies within
// tol of it, using one FindOneAndUpdate so the check and the push are atomic
// on the document.
func (s *MongoStore) AppendPathPoint(
	ctx context.Context,
	id string,
	point domain.Coordinates,
	tol float64,
) (_ int, err error) {
	defer obs.Time(ctx, "mongo.AppendPathPoint")(&err)

	near := bson.M{
		"lat": bson.M{"$gt": point.Lat - tol, "$lt": point.Lat + tol},
		"lon": bson.M{"$gt": point.Lon - tol, "$lt": point.Lon + tol},
	}
	filter := bson.M{
		"_id":  id,
		"path": bson.M{"$not": bson.M{"$elemMatch": near}},
	}
	update := bson.M{
		"$push": bson.M{"path": pathPointDoc{Lat: point.Lat, Lon: point.Lon}},
		"$set":  bson.M{"updated_at": s.now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"path": 1})

	var doc packageDoc
	err = s.packages.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err == nil {
		return len(doc.Path), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("append path point: %w", err)
	}

	// Nothing matched: either the package is missing or the point is a duplicate.
	n, err := s.packages.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return 0, fmt.Errorf("append path point: check package: %w", err)
	}
	if n == 0 {
		return 0, ports.ErrNotFound
	}

	return 0, domain.ErrDuplicatePoint
}

func (d businessDoc) toDomain() *domain.Business {
	return &domain.Business{ID: d.ID, Name: d.Name, SiteURL: d.SiteURL, CreatedAt: d.CreatedAt}
}

func (d customerDoc) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:    d.ID,
		Name:  d.Name,
		Email: d.Email,
		Address: domain.Address{
			Street: d.Address.Street,
			Number: d.Address.Number,
			City:   d.Address.City,
			Lat:    d.Address.Lat,
			Lon:    d.Address.Lon,
		},
		CreatedAt: d.CreatedAt,
	}
}

func (d packageDoc) toDomain() *domain.Package {
	path := make(domain.Path, 0, len(d.Path))
	for _, pt := range d.Path {
		path = append(path, domain.Coordinates{Lat: pt.Lat, Lon: pt.Lon})
	}

	return &domain.Package{
		ID:         d.ID,
		ProdID:     d.ProdID,
		Name:       d.Name,
		StartDate:  d.StartDate,
		ETA:        d.ETA,
		Status:     domain.Status(d.Status),
		BusinessID: d.BusinessID,
		CustomerID: d.CustomerID,
		Path:       path,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
