package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"branchbot/internal/model"
)

// Seeds a demo survey with a small branching graph so the chat flow can be
// exercised without the builder UI.
func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DATABASE")
	if dbName == "" {
		dbName = "branchbot"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	now := time.Now()
	survey := model.Survey{
		ID:        primitive.NewObjectID().Hex(),
		BuilderID: "b_seed0000",
		Title:     "Coffee Habits",
		Settings:  model.SurveySettings{},
		Questions: []model.Question{
			{ID: 1, Position: 1, Kind: model.KindYesNo, Prompt: "Do you drink coffee?"},
			{ID: 2, Position: 2, Kind: model.KindSingleChoice, Prompt: "How do you usually brew it?",
				Options: []string{"Espresso machine", "Pour over", "French press", "Instant"}},
			{ID: 3, Position: 3, Kind: model.KindRating, Prompt: "How would you rate your brew setup?",
				ScaleMin: 1, ScaleMax: 10},
			{ID: 4, Position: 4, Kind: model.KindMultipleChoice, Prompt: "What else do you drink?",
				Options: []string{"Tea", "Matcha", "Energy drinks", "Water"}},
			{ID: 5, Position: 5, Kind: model.KindText, Prompt: "Anything you'd change about your routine?"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.Collection("surveys").InsertOne(ctx, survey); err != nil {
		log.Fatalf("Failed to insert survey: %v", err)
	}

	// Non-drinkers skip the brewing questions; instant drinkers skip the
	// setup rating.
	rules := []struct {
		source, target int
		cond           model.Condition
	}{
		{1, 4, model.Condition{Operator: model.OpEquals, Values: []string{"No"}, QuestionKind: model.KindYesNo}},
		{2, 4, model.Condition{Operator: model.OpEquals, Values: []string{"Instant"}, QuestionKind: model.KindSingleChoice}},
		{3, 5, model.Condition{Operator: model.OpGreaterThanOrEqual, Values: []string{"8"}, QuestionKind: model.KindRating}},
	}

	for i, r := range rules {
		blob, err := json.Marshal(r.cond)
		if err != nil {
			log.Fatalf("Failed to encode condition: %v", err)
		}
		doc := map[string]interface{}{
			"surveyId":  survey.ID,
			"sourceId":  r.source,
			"targetId":  r.target,
			"condition": string(blob),
			"createdAt": now.Add(time.Duration(i) * time.Millisecond),
		}
		if _, err := db.Collection("rules").InsertOne(ctx, doc); err != nil {
			log.Fatalf("Failed to insert rule: %v", err)
		}
	}

	fmt.Printf("Seeded survey %s with %d questions and %d rules\n",
		survey.ID, len(survey.Questions), len(rules))
}
