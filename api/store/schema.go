/* schema.go
 * Contains the methods for the schema_version flag: the single serialization
 * point for migration. The version is read and advanced with a compare-and-set
 * so two concurrent migration runs cannot both observe stale and duplicate work
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SchemaVersion returns the persisted schema version for this league. A league
// with no version document reports version 0.
func (s *Store) SchemaVersion() (int, error) {
	var doc schemaVersionDoc
	err := s.Collections.Schema.FindOne(context.TODO(),
		bson.D{{Key: "league_id", Value: s.LeagueID}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to fetch schema version: %w", err)
	}
	return doc.Version, nil
}

// BumpSchemaVersion advances the version flag from `from` to `to` atomically
// Preconditions: Receives the version observed at the start of migration and
// the target version
// Postconditions: Returns true when this caller performed the bump; false when
// another migrator advanced the flag first; error on storage failure
func (s *Store) BumpSchemaVersion(from, to int) (bool, error) {
	if from == 0 {
		// First ever migration: create the document if nothing raced us to it.
		_, err := s.Collections.Schema.UpdateOne(context.TODO(),
			bson.M{"league_id": s.LeagueID},
			bson.M{"$setOnInsert": bson.M{"league_id": s.LeagueID, "version": 0}},
			options.Update().SetUpsert(true))
		if err != nil {
			return false, fmt.Errorf("failed to seed schema version: %w", err)
		}
	}

	res, err := s.Collections.Schema.UpdateOne(context.TODO(),
		bson.M{"league_id": s.LeagueID, "version": from},
		bson.M{"$set": bson.M{"version": to}})
	if err != nil {
		return false, fmt.Errorf("failed to bump schema version: %w", err)
	}
	if res.ModifiedCount == 0 {
		slog.Info("schema version already advanced by another migrator", "league", s.LeagueID, "from", from, "to", to)
		return false, nil
	}
	return true, nil
}

// DropLegacyCaches removes the ad-hoc cache collections that predate the
// versioned model. Invoked after every successful version bump.
func (s *Store) DropLegacyCaches() error {
	for _, name := range legacyCacheCollections {
		if err := s.Database.Collection(name).Drop(context.TODO()); err != nil {
			return fmt.Errorf("failed to drop legacy cache %s: %w", name, err)
		}
	}
	return nil
}
