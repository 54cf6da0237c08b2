package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"branchbot/internal/model"
)

// RuleRepo handles MongoDB operations for branching rules. The condition is
// stored as an opaque JSON blob; the store never interprets it.
type RuleRepo interface {
	Create(ctx context.Context, rule *model.BranchingRule) error
	ListBySurvey(ctx context.Context, surveyID string) ([]model.BranchingRule, error)
	Delete(ctx context.Context, surveyID string, sourceID, targetID int) error
	DeleteBySurvey(ctx context.Context, surveyID string) error
}

type ruleDoc struct {
	SurveyID  string    `bson:"surveyId"`
	SourceID  int       `bson:"sourceId"`
	TargetID  int       `bson:"targetId"`
	Condition string    `bson:"condition"`
	CreatedAt time.Time `bson:"createdAt"`
}

type ruleRepo struct {
	collection *mongo.Collection
}

// NewRuleRepo creates a new rule repository
func NewRuleRepo(db *mongo.Database) RuleRepo {
	return &ruleRepo{
		collection: db.Collection("rules"),
	}
}

func (r *ruleRepo) Create(ctx context.Context, rule *model.BranchingRule) error {
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	blob, err := json.Marshal(rule.Condition)
	if err != nil {
		return fmt.Errorf("failed to encode condition: %w", err)
	}

	_, err = r.collection.InsertOne(ctx, &ruleDoc{
		SurveyID:  rule.SurveyID,
		SourceID:  rule.SourceID,
		TargetID:  rule.TargetID,
		Condition: string(blob),
		CreatedAt: rule.CreatedAt,
	})
	return err
}

func (r *ruleRepo) ListBySurvey(ctx context.Context, surveyID string) ([]model.BranchingRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"surveyId": surveyID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []ruleDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	rules := make([]model.BranchingRule, 0, len(docs))
	for _, doc := range docs {
		var cond model.Condition
		if err := json.Unmarshal([]byte(doc.Condition), &cond); err != nil {
			return nil, fmt.Errorf("failed to decode condition for rule %d->%d: %w", doc.SourceID, doc.TargetID, err)
		}
		rules = append(rules, model.BranchingRule{
			SurveyID:  doc.SurveyID,
			SourceID:  doc.SourceID,
			TargetID:  doc.TargetID,
			Condition: cond,
			CreatedAt: doc.CreatedAt,
		})
	}
	return rules, nil
}

func (r *ruleRepo) Delete(ctx context.Context, surveyID string, sourceID, targetID int) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{
		"surveyId": surveyID,
		"sourceId": sourceID,
		"targetId": targetID,
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("rule %d -> %d not found", sourceID, targetID)
	}
	return nil
}

func (r *ruleRepo) DeleteBySurvey(ctx context.Context, surveyID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"surveyId": surveyID})
	return err
}
