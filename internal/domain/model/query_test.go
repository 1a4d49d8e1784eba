package model_test

import (
	"errors"
	"testing"

	"infoseek-tracker/internal/domain"
	"infoseek-tracker/internal/domain/model"
)

func TestParseQuery(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		keyword string
		count   int
	}{
		{"comma with bare count", "Chopin, 5", "Chopin", 5},
		{"comma with russian noun", "Economy, 10 статей", "Economy", 10},
		{"comma with english noun", "Jazz, 4 articles", "Jazz", 4},
		{"no comma no count", "Tech", "Tech", 3},
		{"out of range falls back, never clamps", "A, 99", "A", 3},
		{"zero falls back", "B, 0", "B", 3},
		{"unparsable clause falls back", "C, a lot", "C", 3},
		{"comma but empty clause", "D,", "D", 3},
		{"trailing token count", "quantum computing 7", "quantum computing", 7},
		{"trailing token out of range is keyword", "census 1990", "census 1990", 3},
		{"single number is a keyword", "5", "5", 3},
		{"singular russian noun", "Спорт, 1 статья", "Спорт", 1},
		{"whitespace around everything", "  Alps ,  2  ", "Alps", 2},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			q, err := model.ParseQuery(c.in)
			if err != nil {
				t.Fatalf("ParseQuery(%q): %v", c.in, err)
			}
			if q.Keyword != c.keyword || q.ArticleCount != c.count {
				t.Errorf("ParseQuery(%q) = (%q, %d), want (%q, %d)", c.in, q.Keyword, q.ArticleCount, c.keyword, c.count)
			}
		})
	}

	t.Run("empty input", func(t *testing.T) {
		for _, in := range []string{"", "   ", "\t\n"} {
			if _, err := model.ParseQuery(in); !errors.Is(err, domain.ErrEmptyKeyword) {
				t.Errorf("ParseQuery(%q): expected ErrEmptyKeyword, got %v", in, err)
			}
		}
	})

	t.Run("comma with empty keyword", func(t *testing.T) {
		if _, err := model.ParseQuery(", 5"); !errors.Is(err, domain.ErrEmptyKeyword) {
			t.Errorf("expected ErrEmptyKeyword, got %v", err)
		}
	})
}
