package mongodb

import (
	"context"
	"fmt"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"vehicle-insurance-mlops/internal/config"
	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultMaxPoolSize    = 20
)

type recordSource struct {
	client   *mongo.Client
	database *mongo.Database
	dbName   string
}

// NewRecordSource connects to MongoDB and verifies the connection with a ping.
func NewRecordSource(ctx context.Context, cfg *config.MongoConfig) (ports.RecordSource, func(context.Context) error, error) {
	if cfg.URL == "" {
		return nil, nil, &domain.ConnectionError{Resource: "mongodb", Err: fmt.Errorf("MONGODB_URL is not set")}
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	clientOpts := options.Client().
		ApplyURI(cfg.URL).
		SetMaxPoolSize(DefaultMaxPoolSize).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName("vehicle-insurance-mlops").
		SetRetryReads(false)

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, clientOpts)
	if err != nil {
		return nil, nil, &domain.ConnectionError{Resource: "mongodb", Err: err}
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, &domain.ConnectionError{Resource: "mongodb", Err: err}
	}

	log.WithField("database", cfg.Database).Info("connected to mongodb")

	src := &recordSource{
		client:   client,
		database: client.Database(cfg.Database),
		dbName:   cfg.Database,
	}
	return src, client.Disconnect, nil
}

// FetchAll reads every document of collection. Columns follow first-seen key
// order across documents; a document missing a key yields an empty cell.
func (s *recordSource) FetchAll(ctx context.Context, collection string) (*domain.Frame, error) {
	cursor, err := s.database.Collection(collection).Find(ctx, bson.D{})
	if err != nil {
		return nil, &domain.DataAccessError{Source: s.dbName + "." + collection, Err: &domain.ConnectionError{Resource: "mongodb", Err: err}}
	}
	defer func() { _ = cursor.Close(ctx) }()

	var docs []bson.D
	for cursor.Next(ctx) {
		var doc bson.D
		if err := cursor.Decode(&doc); err != nil {
			return nil, &domain.DataAccessError{Source: s.dbName + "." + collection, Err: fmt.Errorf("decode document: %w", err)}
		}
		docs = append(docs, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, &domain.DataAccessError{Source: s.dbName + "." + collection, Err: err}
	}

	return DocumentsToFrame(docs), nil
}

// DocumentsToFrame flattens ordered documents into a frame.
func DocumentsToFrame(docs []bson.D) *domain.Frame {
	frame := &domain.Frame{}
	index := map[string]int{}
	for _, doc := range docs {
		for _, e := range doc {
			if _, ok := index[e.Key]; !ok {
				index[e.Key] = len(frame.Columns)
				frame.Columns = append(frame.Columns, e.Key)
			}
		}
	}

	frame.Rows = make([][]string, len(docs))
	for i, doc := range docs {
		row := make([]string, len(frame.Columns))
		for _, e := range doc {
			row[index[e.Key]] = stringify(e.Value)
		}
		frame.Rows[i] = row
	}
	return frame
}

func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return ""
	case string:
		return val
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Decimal128:
		return val.String()
	case primitive.DateTime:
		return val.Time().UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
