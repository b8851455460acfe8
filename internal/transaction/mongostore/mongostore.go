// Package mongostore persists transactions as documents in a MongoDB collection.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/MrJamesThe3rd/finviz/internal/transaction"
)

const collectionName = "transactions"

type document struct {
	ID          string               `bson:"_id"`
	Amount      primitive.Decimal128 `bson:"amount"`
	Date        time.Time            `bson:"date"`
	Description string               `bson:"description"`
	Type        string               `bson:"type"`
	CreatedAt   time.Time            `bson:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt"`
}

type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Connect dials uri and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	return client, nil
}

func New(db *mongo.Database) *Store {
	return &Store{coll: db.Collection(collectionName), now: time.Now}
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, transaction.ErrStorageUnavailable, err)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDocument(doc document) (*transaction.Transaction, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parsing id %q: %w", doc.ID, err)
	}

	amount, err := decimal.NewFromString(doc.Amount.String())
	if err != nil {
		return nil, fmt.Errorf("parsing amount of %s: %w", doc.ID, err)
	}

	return &transaction.Transaction{
		ID:          id,
		Amount:      amount,
		Type:        transaction.Type(doc.Type),
		Description: doc.Description,
		Date:        doc.Date.UTC(),
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}, nil
}

// timestamp reads the clock at the millisecond precision BSON dates keep, so
// callers see exactly what is stored.
func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func newDocument(tx *transaction.Transaction, now time.Time) (document, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return document{}, fmt.Errorf("encoding amount: %w", err)
	}

	return document{
		ID:          uuid.NewString(),
		Amount:      amount,
		Date:        tx.Date,
		Description: tx.Description,
		Type:        string(tx.Type),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	doc, err := newDocument(tx, s.timestamp())
	if err != nil {
		return err
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return unavailable("creating transaction", err)
	}

	tx.ID = uuid.MustParse(doc.ID)
	tx.CreatedAt = doc.CreatedAt
	tx.UpdatedAt = doc.UpdatedAt

	return nil
}

// CreateTransactions inserts txs with one ordered InsertMany. If it fails
// part way, the documents that did land are removed again before returning.
func (s *Store) CreateTransactions(ctx context.Context, txs []*transaction.Transaction) error {
	if len(txs) == 0 {
		return nil
	}

	now := s.timestamp()
	docs := make([]any, len(txs))
	ids := make([]string, len(txs))

	for i, tx := range txs {
		doc, err := newDocument(tx, now.Add(time.Duration(i)*time.Millisecond))
		if err != nil {
			return fmt.Errorf("transaction %d of %d: %w", i+1, len(txs), err)
		}

		docs[i] = doc
		ids[i] = doc.ID
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		cleanup := context.WithoutCancel(ctx)
		if _, derr := s.coll.DeleteMany(cleanup, bson.M{"_id": bson.M{"$in": ids}}); derr != nil {
			return unavailable("creating transactions", errors.Join(err, derr))
		}

		return unavailable("creating transactions", err)
	}

	for i, tx := range txs {
		doc := docs[i].(document)
		tx.ID = uuid.MustParse(doc.ID)
		tx.CreatedAt = doc.CreatedAt
		tx.UpdatedAt = doc.UpdatedAt
	}

	return nil
}

// updatePipeline sets the mutable fields and moves updatedAt to now, or one
// millisecond past its stored value when the clock has not advanced.
// Descriptions go through $literal so a leading "$" is never read as a
// field path.
func updatePipeline(tx *transaction.Transaction, amount primitive.Decimal128, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "amount", Value: amount},
			{Key: "date", Value: tx.Date},
			{Key: "description", Value: bson.D{{Key: "$literal", Value: tx.Description}}},
			{Key: "type", Value: bson.D{{Key: "$literal", Value: string(tx.Type)}}},
			{Key: "updatedAt", Value: bson.D{{Key: "$max", Value: bson.A{
				now,
				bson.D{{Key: "$add", Value: bson.A{"$updatedAt", 1}}},
			}}}},
		}}},
	}
}

func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return fmt.Errorf("encoding amount: %w", err)
	}

	var doc document

	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": tx.ID.String()},
		updatePipeline(tx, amount, s.timestamp()),
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return transaction.ErrNotFound
		}

		return unavailable("updating transaction", err)
	}

	tx.CreatedAt = doc.CreatedAt.UTC()
	tx.UpdatedAt = doc.UpdatedAt.UTC()

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return unavailable("deleting transaction", err)
	}

	if res.DeletedCount == 0 {
		return transaction.ErrNotFound
	}

	return nil
}

func (s *Store) ListTransactions(ctx context.Context) ([]*transaction.Transaction, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "date", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable("listing transactions", err)
	}
	defer cur.Close(ctx)

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, unavailable("decoding transactions", err)
	}

	txs := make([]*transaction.Transaction, 0, len(docs))

	for _, doc := range docs {
		tx, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}

		txs = append(txs, tx)
	}

	return txs, nil
}
