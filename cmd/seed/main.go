package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"qbank/internal/model"
)

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	db := client.Database("qbank")
	bankColl := db.Collection("banks")

	bank := model.Bank{
		HostID: "host_seed",
		Name:   "Algebra Midterm Pool",
		Metadata: map[string]interface{}{
			"course": "MATH 101",
			"term":   "Fall 2026",
		},
		Questions: []model.Question{
			{
				ID:            "Q_00001",
				Type:          model.QuestionTypeMultipleChoice,
				Title:         "Linear equations",
				QuestionText:  "Solve for x: $2x + 4 = 10$",
				Choices:       [model.ChoiceCount]string{"x = 3", "x = 2", "x = 5", "x = 7"},
				CorrectAnswer: "A",
				Points:        1,
				Tolerance:     0.05,
				Topic:         "Algebra",
				Subtopic:      "Linear Equations",
				Difficulty:    model.DifficultyEasy,
			},
			{
				ID:            "Q_00002",
				Type:          model.QuestionTypeNumerical,
				Title:         "Quadratic roots",
				QuestionText:  "What is the positive root of $x^2 - 9 = 0$?",
				CorrectAnswer: "3",
				Points:        2,
				Tolerance:     0.01,
				Topic:         "Algebra",
				Subtopic:      "Quadratics",
				Difficulty:    model.DifficultyMedium,
			},
			{
				ID:            "Q_00003",
				Type:          model.QuestionTypeTrueFalse,
				Title:         "Commutativity",
				QuestionText:  "Matrix multiplication is commutative.",
				CorrectAnswer: "false",
				Points:        1,
				Tolerance:     0.05,
				Topic:         "Algebra",
				Subtopic:      "Matrices",
				Difficulty:    model.DifficultyHard,
			},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	result, err := bankColl.InsertOne(ctx, &bank)
	if err != nil {
		log.Fatalf("Failed to seed bank: %v", err)
	}

	fmt.Printf("Seeded bank %v with %d questions\n", result.InsertedID, len(bank.Questions))
}
