package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/source/local"
	"github.com/tmengistu/stratum/pkg/source/mongostore"
)

// sourceOpts holds the model-source flags shared by commands that load
// models.
type sourceOpts struct {
	sourceName string // model source: local or mongo
	mongoURI   string // mongodb connection string
	mongoDB    string // mongodb database name
	mongoColl  string // mongodb collection name
}

// addSourceFlags registers the shared model-source flags on cmd.
func addSourceFlags(cmd *cobra.Command, opts *sourceOpts) {
	cmd.Flags().StringVar(&opts.sourceName, "source", sourceLocal, "model source: local or mongo")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", os.Getenv("STRATUM_MONGO_URI"), "mongodb connection string (mongo source)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", mongostore.DefaultDatabase, "mongodb database name (mongo source)")
	cmd.Flags().StringVar(&opts.mongoColl, "mongo-collection", mongostore.DefaultCollection, "mongodb collection name (mongo source)")
}

// open builds the model source selected by --source. The returned
// closer releases backend connections and is safe to call once.
func (o *sourceOpts) open(ctx context.Context) (source.Source, func(), error) {
	switch o.sourceName {
	case sourceLocal:
		return local.New(), func() {}, nil
	case sourceMongo:
		store, err := mongostore.New(ctx, mongostore.Config{
			URI:        o.mongoURI,
			Database:   o.mongoDB,
			Collection: o.mongoColl,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close(ctx) }, nil
	default:
		return nil, nil, fmt.Errorf("invalid source: %q (must be 'local' or 'mongo')", o.sourceName)
	}
}
