package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SeedFlag is the setting that records that sample data was created.
const SeedFlag = "done"

type sampleTask struct {
	title, note string
	done        bool
}

type sampleList struct {
	title string
	tasks []sampleTask
}

var samples = []sampleList{
	{
		title: "Shopping List",
		tasks: []sampleTask{
			{title: "Milk", note: "2L"},
			{title: "Bread"},
			{title: "Apples", note: "Green, 2 kg"},
			{title: "Coffee", done: true},
		},
	},
	{
		title: "Weekend Trip",
		tasks: []sampleTask{
			{title: "Buy tickets", done: true},
			{title: "Book a hotel"},
			{title: "Pack bags", note: "Don't forget the charger"},
		},
	},
	{
		title: "Reading",
	},
}

// SeedIfNeeded creates the sample lists on first run. It reports whether
// anything was created. Once the flag is set later calls do nothing, and
// concurrent calls share a single run. A failed run removes the lists it
// created, so a retry starts from an empty sample set.
func (s *Service) SeedIfNeeded(ctx context.Context) (bool, error) {
	if s.flags == nil {
		return false, errors.New("seeding requires a flag store")
	}
	v, err, _ := s.sf.Do("seed", func() (any, error) {
		done, err := s.flags.Flag(ctx, SeedFlag)
		if err != nil {
			return false, err
		}
		if done {
			return false, nil
		}
		created, err := s.seed(ctx)
		if err == nil {
			err = s.flags.SetFlag(ctx, SeedFlag, true)
		}
		if err != nil {
			s.discard(ctx, created)
			return false, err
		}
		s.logger.Info("sample data created", slog.Int("lists", len(samples)))
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("seed: %w", err)
	}
	return v.(bool), nil
}

// seed returns the ids of the lists it created, including on failure.
func (s *Service) seed(ctx context.Context) ([]string, error) {
	var created []string
	for _, sl := range samples {
		l, err := s.lists.Create(ctx, sl.title)
		if err != nil {
			return created, err
		}
		created = append(created, l.ID)
		for _, st := range sl.tasks {
			t, err := s.tasks.Create(ctx, l.ID, st.title, st.note)
			if err != nil {
				return created, err
			}
			if st.done {
				if _, err := s.tasks.Toggle(ctx, t.ID); err != nil {
					return created, err
				}
			}
		}
	}
	return created, nil
}

// discard deletes partially seeded lists. Their tasks go with them.
func (s *Service) discard(ctx context.Context, ids []string) {
	ctx = context.WithoutCancel(ctx)
	for _, id := range ids {
		if err := s.lists.Delete(ctx, id); err != nil {
			s.logger.Error("unable to remove partial sample list",
				slog.String("id", id),
				slog.String("error", err.Error()))
		}
	}
}
