package ledger_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

func expense(amount int64, c ledger.Category) ledger.Transaction {
	return ledger.Transaction{
		ID:            uuid.New(),
		Amount:        amount,
		Flow:          ledger.FlowExpense,
		Category:      c,
		PaymentMethod: ledger.PaymentCash,
		Timestamp:     time.Date(2026, 10, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestService_Append(t *testing.T) {
	type testCase struct {
		name      string
		tx        ledger.Transaction
		setupMock func(m *ledger.MockRepository, tx ledger.Transaction)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			tx:   expense(500, ledger.CategoryFood),
			setupMock: func(m *ledger.MockRepository, tx ledger.Transaction) {
				gomock.InOrder(
					m.EXPECT().AppendTransaction(gomock.Any(), tx).Return(nil),
					m.EXPECT().ListTransactions(gomock.Any()).Return([]ledger.Transaction{tx}, nil),
				)
			},
			wantLen: 1,
		},
		{
			name:    "MissingID",
			tx:      ledger.Transaction{Amount: 500, Flow: ledger.FlowExpense},
			wantErr: true,
		},
		{
			name: "RepoError",
			tx:   expense(500, ledger.CategoryFood),
			setupMock: func(m *ledger.MockRepository, tx ledger.Transaction) {
				m.EXPECT().AppendTransaction(gomock.Any(), tx).Return(errors.New("db error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo, tt.tx)
			}

			svc := ledger.NewService(repo)
			got, err := svc.Append(context.Background(), tt.tx)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := ledger.NewMockRepository(ctrl)
	repo.EXPECT().DeleteTransaction(gomock.Any(), id).Return(ledger.ErrNotFound)

	svc := ledger.NewService(repo)
	_, err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_Import(t *testing.T) {
	first := expense(1000, ledger.CategoryFood)
	second := expense(2000, ledger.CategoryFromLabel("Salaire"))
	already := expense(3000, ledger.CategoryHealth)

	type testCase struct {
		name         string
		input        []ledger.Transaction
		setupMock    func(repo *ledger.MockRepository, itx *ledger.MockImportTx)
		wantImported int
		wantSkipped  int
		wantErr      bool
	}

	tests := []testCase{
		{
			name:  "Empty",
			input: nil,
		},
		{
			name:  "SkipsExistingAndRepeated",
			input: []ledger.Transaction{first, second, already, first},
			setupMock: func(repo *ledger.MockRepository, itx *ledger.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
				itx.EXPECT().ExistingIDs(gomock.Any(), gomock.Len(4)).
					Return(map[uuid.UUID]struct{}{already.ID: {}}, nil)
				itx.EXPECT().AppendTransactions(gomock.Any(), []ledger.Transaction{first, second}).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
			wantImported: 2,
			wantSkipped:  2,
		},
		{
			name:  "AllDuplicatesDoesNotCommit",
			input: []ledger.Transaction{already},
			setupMock: func(repo *ledger.MockRepository, itx *ledger.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
				itx.EXPECT().ExistingIDs(gomock.Any(), gomock.Any()).
					Return(map[uuid.UUID]struct{}{already.ID: {}}, nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantSkipped: 1,
		},
		{
			name:  "AppendError",
			input: []ledger.Transaction{first},
			setupMock: func(repo *ledger.MockRepository, itx *ledger.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
				itx.EXPECT().ExistingIDs(gomock.Any(), gomock.Any()).Return(nil, nil)
				itx.EXPECT().AppendTransactions(gomock.Any(), gomock.Any()).Return(errors.New("insert failed"))
				itx.EXPECT().Rollback().Return(nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			itx := ledger.NewMockImportTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, itx)
			}

			svc := ledger.NewService(repo)
			got, err := svc.Import(context.Background(), tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Imported, tt.wantImported)
			assert.Len(t, got.Skipped, tt.wantSkipped)
		})
	}
}
