package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan describes how much demo data to generate. Plans are loaded from a
// YAML file so different environments can keep their own presets.
type Plan struct {
	Creators         int     `yaml:"creators"`
	Consumers        int     `yaml:"consumers"`
	PhotosPerCreator int     `yaml:"photos_per_creator"`
	CommentsPerPhoto int     `yaml:"comments_per_photo"`
	FollowsPerUser   int     `yaml:"follows_per_user"`
	LikeRate         float64 `yaml:"like_rate"`
	SaveRate         float64 `yaml:"save_rate"`
	Clean            bool    `yaml:"clean"`
	Password         string  `yaml:"password"`
}

// DefaultPlan returns a small mesh suitable for local development.
func DefaultPlan() Plan {
	return Plan{
		Creators:         8,
		Consumers:        20,
		PhotosPerCreator: 5,
		CommentsPerPhoto: 3,
		FollowsPerUser:   4,
		LikeRate:         0.35,
		SaveRate:         0.15,
		Clean:            true,
		Password:         "password123",
	}
}

// LoadPlan reads a plan file, filling omitted fields from the defaults.
func LoadPlan(path string) (Plan, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("read plan: %w", err)
	}
	plan := DefaultPlan()
	if err := yaml.Unmarshal(raw, &plan); err != nil {
		return Plan{}, fmt.Errorf("parse plan: %w", err)
	}
	if err := plan.validate(); err != nil {
		return Plan{}, err
	}
	return plan, nil
}

func (p Plan) validate() error {
	if p.Creators < 1 {
		return fmt.Errorf("plan needs at least one creator, got %d", p.Creators)
	}
	if p.Consumers < 0 || p.PhotosPerCreator < 0 || p.CommentsPerPhoto < 0 || p.FollowsPerUser < 0 {
		return fmt.Errorf("plan counts must not be negative")
	}
	if p.LikeRate < 0 || p.LikeRate > 1 || p.SaveRate < 0 || p.SaveRate > 1 {
		return fmt.Errorf("like_rate and save_rate must be within [0, 1]")
	}
	if p.Password == "" {
		return fmt.Errorf("plan password must not be empty")
	}
	return nil
}
