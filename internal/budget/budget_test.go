package budget_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/budget"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

func TestService_SetLimit(t *testing.T) {
	type args struct {
		category ledger.Category
		limit    int64
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *budget.MockRepository)
		want      budget.Limits
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{category: ledger.CategoryFood, limit: 20000},
			setupMock: func(m *budget.MockRepository) {
				gomock.InOrder(
					m.EXPECT().SetLimit(gomock.Any(), ledger.CategoryFood, int64(20000)).Return(nil),
					m.EXPECT().LoadLimits(gomock.Any()).Return(budget.Limits{ledger.CategoryFood: 20000}, nil),
				)
			},
			want: budget.Limits{ledger.CategoryFood: 20000},
		},
		{
			name: "ZeroClears",
			args: args{category: ledger.CategoryFood, limit: 0},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().SetLimit(gomock.Any(), ledger.CategoryFood, int64(0)).Return(nil)
				m.EXPECT().LoadLimits(gomock.Any()).Return(nil, nil)
			},
			want: budget.Limits{},
		},
		{
			name:    "Negative",
			args:    args{category: ledger.CategoryFood, limit: -1},
			wantErr: budget.ErrInvalidLimit,
		},
		{
			name:    "UnknownCategory",
			args:    args{category: ledger.CategoryFromLabel("Salaire"), limit: 100},
			wantErr: ledger.ErrUnknownCategory,
		},
		{
			name: "RepoError",
			args: args{category: ledger.CategoryHealth, limit: 100},
			setupMock: func(m *budget.MockRepository) {
				m.EXPECT().SetLimit(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := budget.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := budget.NewService(repo)
			got, err := svc.SetLimit(context.Background(), tt.args.category, tt.args.limit)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLimits_Limit(t *testing.T) {
	limits := budget.Limits{ledger.CategoryFood: 20000, ledger.CategoryHealth: 0}

	v, ok := limits.Limit(ledger.CategoryFood)
	assert.True(t, ok)
	assert.Equal(t, int64(20000), v)

	_, ok = limits.Limit(ledger.CategoryHealth)
	assert.False(t, ok)

	_, ok = limits.Limit(ledger.CategoryTransport)
	assert.False(t, ok)
}
