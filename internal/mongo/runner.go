// internal/mongo/runner.go
package mongo

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"

	"actionbridge/internal/common/config"
	apperrors "actionbridge/internal/common/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Runner executes one command document and returns the server reply.
type Runner interface {
	RunCommand(ctx context.Context, cmd bson.D) (bson.Raw, error)
}

type DatabaseRunner struct {
	db *mongo.Database
}

func NewDatabaseRunner(db *mongo.Database) *DatabaseRunner {
	return &DatabaseRunner{db: db}
}

func (r *DatabaseRunner) RunCommand(ctx context.Context, cmd bson.D) (bson.Raw, error) {
	raw, err := r.db.RunCommand(ctx, cmd).Raw()
	if err == nil {
		return raw, nil
	}

	var cmdErr mongo.CommandError
	if stderrors.As(err, &cmdErr) {
		vendor := apperrors.NewVendorError(http.StatusInternalServerError, cmdErr.Message)
		vendor.Metadata["code"] = cmdErr.Code
		vendor.Metadata["codeName"] = cmdErr.Name
		return nil, vendor
	}
	return nil, apperrors.NewTransportError(err)
}

// Connect opens a client for cfg and returns the configured database.
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	if cfg.URI == "" {
		return nil, nil, fmt.Errorf("mongo.uri is not configured")
	}
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(config.GetDuration(cfg.ConnectTimeout))

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	return client, client.Database(cfg.Database), nil
}
