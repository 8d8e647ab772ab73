package services_test

import (
	"testing"

	"github.com/SscSPs/statement_import/internal/core/services"
	"github.com/stretchr/testify/assert"
)

func TestRulePayeeShortener_Shorten(t *testing.T) {
	shortener := services.NewRulePayeeShortener()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"prefix and store number", "POS PURCHASE  TIM HORTONS #1234 TORONTO ON", "TIM HORTONS"},
		{"square prefix", "SQ *BLUE BOTTLE COFFEE", "BLUE BOTTLE COFFEE"},
		{"corporate suffix", "Acme Widgets Inc.", "Acme Widgets"},
		{"bare store number", "SHELL 04417 CALGARY", "SHELL"},
		{"only digits", "12345", "12345"},
		{"already short", "Netflix", "Netflix"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortener.Shorten(tt.in))
		})
	}
}
