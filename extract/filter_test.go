package extract

import (
	"testing"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

func TestShouldIgnore(t *testing.T) {
	valid := func() *model.Question {
		q := model.NewQuestion("1")
		q.SetText("Welche Aussage trifft zu?")
		q.SetOption('A', "diese")
		return q
	}

	tests := []struct {
		name string
		prep func() *model.Question
		want bool
	}{
		{"valid question", valid, false},
		{"short text", func() *model.Question {
			q := valid()
			q.Text = "Ja?"
			return q
		}, true},
		{"no options", func() *model.Question {
			q := model.NewQuestion("1")
			q.SetText("Welche Aussage trifft zu?")
			return q
		}, true},
		{"placeholder phrase", func() *model.Question {
			q := valid()
			q.Text = "Gesucht:  Richtig/Falsch?"
			return q
		}, true},
		{"filler numbering", func() *model.Question {
			q := valid()
			q.Text = "12. - 15. ___"
			return q
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldIgnore(tt.prep()); got != tt.want {
				t.Errorf("ShouldIgnore = %v, want %v", got, tt.want)
			}
		})
	}
}
