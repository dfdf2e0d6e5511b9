package model

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validRequest() *Request {
	return &Request{
		Organization: "org-1",
		User:         "user-1",
		Headline:     "Acme Corp Launches AI Platform",
		Content:      strings.Repeat("Acme Corp today announced a new platform. ", 5),
		Budget:       1500,
	}
}

func TestRequest_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(r *Request)
		wantErr string
	}{
		{
			name:   "valid request",
			mutate: func(r *Request) {},
		},
		{
			name:    "headline too short",
			mutate:  func(r *Request) { r.Headline = "short" },
			wantErr: "headline",
		},
		{
			name:    "headline too long",
			mutate:  func(r *Request) { r.Headline = strings.Repeat("x", 201) },
			wantErr: "headline",
		},
		{
			name:    "content too short",
			mutate:  func(r *Request) { r.Content = "too little" },
			wantErr: "content",
		},
		{
			name:    "negative budget",
			mutate:  func(r *Request) { r.Budget = -1 },
			wantErr: "budget",
		},
		{
			name:    "scheduled without time",
			mutate:  func(r *Request) { r.Urgency = UrgencyScheduled },
			wantErr: "scheduledAt",
		},
		{
			name: "scheduled with time",
			mutate: func(r *Request) {
				at := time.Now().Add(time.Hour)
				r.Urgency = UrgencyScheduled
				r.ScheduledAt = &at
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			err := req.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			var validation *ValidationError
			assert.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.wantErr, validation.Field)
		})
	}
}

func TestRequest_EffectiveUrgency(t *testing.T) {
	req := validRequest()
	assert.Equal(t, UrgencyStandard, req.EffectiveUrgency())
	req.Urgency = UrgencyImmediate
	assert.Equal(t, UrgencyImmediate, req.EffectiveUrgency())
}
