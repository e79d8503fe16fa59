/* aggregates.go
 * Contains the methods for interacting with the owner_aggregates collection.
 * Aggregates are rebuilt wholesale, so writes are whole-record replaces keyed
 * by owner id
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"rosteriq/api/shared"
)

// FetchOwnerAggregate returns the stored all-time aggregate for an owner
// Preconditions: Receives the durable owner id
// Postconditions: Returns the aggregate, mongo.ErrNoDocuments when none is
// stored, or another error if it occurs
func (s *Store) FetchOwnerAggregate(ownerID string) (shared.OwnerAggregate, error) {
	var agg shared.OwnerAggregate
	err := s.Collections.Aggregates.FindOne(context.TODO(),
		bson.D{{Key: "league_id", Value: s.LeagueID}, {Key: "owner_id", Value: ownerID}}).Decode(&agg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.OwnerAggregate{}, err
		}
		return shared.OwnerAggregate{}, fmt.Errorf("failed to fetch owner aggregate: %w", err)
	}
	return agg, nil
}

// SaveOwnerAggregate replaces the stored aggregate for an owner with the
// freshly rebuilt one
// Preconditions: Receives a complete OwnerAggregate produced by one rebuild pass
// Postconditions: Replaces (or inserts) the stored record and returns nil, or
// an error if it occurs
func (s *Store) SaveOwnerAggregate(agg shared.OwnerAggregate) error {
	if agg.OwnerID == "" {
		return fmt.Errorf("owner aggregate is missing an owner id")
	}
	filter := bson.M{"league_id": s.LeagueID, "owner_id": agg.OwnerID}

	// The aggregate document carries the league id alongside the marshalled record.
	raw, err := bson.Marshal(agg)
	if err != nil {
		return fmt.Errorf("failed to marshal owner aggregate: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("failed to build owner aggregate document: %w", err)
	}
	doc["league_id"] = s.LeagueID

	var existing bson.M
	err = s.Collections.Aggregates.FindOne(context.TODO(), filter).Decode(&existing)
	notFound := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing aggregate failed: %w", err)
	}

	if notFound {
		if _, err := s.Collections.Aggregates.InsertOne(context.TODO(), doc); err != nil {
			return fmt.Errorf("failed to insert owner aggregate: %w", err)
		}
		return nil
	}

	if _, err := s.Collections.Aggregates.ReplaceOne(context.TODO(), filter, doc); err != nil {
		return fmt.Errorf("failed to replace owner aggregate: %w", err)
	}
	return nil
}
