package dto_test

import (
	"net/http"
	"scheduler/internal/domains/link/model"
	"scheduler/internal/domains/link/model/dto"
	"scheduler/shared/failure"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLinkRequest_ToModel(t *testing.T) {
	tests := []struct {
		name          string
		req           dto.CreateLinkRequest
		wantErr       bool
		wantApprovers []string
	}{
		{
			name: "direct booking link",
			req:  dto.CreateLinkRequest{Title: "Intro", DurationMinutes: 30},
		},
		{
			name:          "approval with deduplicated approvers",
			req:           dto.CreateLinkRequest{Title: "Review", DurationMinutes: 60, RequiresApproval: true, Approvers: []string{" lead@firm.test ", "LEAD@firm.test", "", "advisor-2"}},
			wantApprovers: []string{"lead@firm.test", "advisor-2"},
		},
		{
			name:    "approval without approvers",
			req:     dto.CreateLinkRequest{Title: "Review", DurationMinutes: 60, RequiresApproval: true, Approvers: []string{" "}},
			wantErr: true,
		},
		{
			name:    "approvers without approval",
			req:     dto.CreateLinkRequest{Title: "Intro", DurationMinutes: 30, Approvers: []string{"lead@firm.test"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := tt.req.ToModel("advisor-1", "Europe/Paris")
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, link.ID)
			assert.Equal(t, "advisor-1", link.OwnerID)
			assert.Equal(t, "Europe/Paris", link.Timezone)
			assert.True(t, link.Active)
			assert.Equal(t, len(tt.wantApprovers), len(link.Approvers))

			if tt.wantApprovers != nil {
				assert.Equal(t, pq.StringArray(tt.wantApprovers), link.Approvers)
			}
		})
	}
}

func TestUpdateLinkRequest_Apply(t *testing.T) {
	approval := model.Link{ID: "l-1", RequiresApproval: true, Approvers: pq.StringArray{"lead@firm.test"}, UsageLimit: 10, UsageCount: 4}
	off, on := false, true
	zero, three := 0, 3

	t.Run("turning approval off clears approvers", func(t *testing.T) {
		changes, err := (&dto.UpdateLinkRequest{RequiresApproval: &off, Approvers: []string{}}).Apply(approval, "advisor-1")
		require.NoError(t, err)
		assert.Equal(t, false, changes[model.FieldRequiresApproval])
		assert.Equal(t, pq.StringArray{}, changes[model.FieldApprovers])
	})

	t.Run("turning approval off while keeping approvers fails", func(t *testing.T) {
		_, err := (&dto.UpdateLinkRequest{RequiresApproval: &off}).Apply(approval, "advisor-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("turning approval on needs approvers", func(t *testing.T) {
		_, err := (&dto.UpdateLinkRequest{RequiresApproval: &on}).Apply(model.Link{}, "advisor-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("usage limit below count", func(t *testing.T) {
		_, err := (&dto.UpdateLinkRequest{UsageLimit: &three}).Apply(approval, "advisor-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("zero limit removes the cap", func(t *testing.T) {
		changes, err := (&dto.UpdateLinkRequest{UsageLimit: &zero}).Apply(approval, "advisor-1")
		require.NoError(t, err)
		assert.Equal(t, 0, changes[model.FieldUsageLimit])
		assert.NotContains(t, changes, model.FieldApprovers)
	})

	assert.True(t, (&dto.UpdateLinkRequest{}).IsEmpty())
	assert.False(t, (&dto.UpdateLinkRequest{Active: &off}).IsEmpty())
}
