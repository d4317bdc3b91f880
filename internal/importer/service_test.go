package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/budgetivoire/budgetivoire/internal/importer"
	"github.com/budgetivoire/budgetivoire/internal/ledger"
)

const wallet = `Date;Opérateur;Description;Débit;Crédit
15/10/2026;Wave;Courses;7 500;
14/10/2026;Wave;Remboursement;;2 000
`

func TestService_Import(t *testing.T) {
	type testCase struct {
		name      string
		input     string
		setupMock func(repo *ledger.MockRepository, itx *ledger.MockImportTx)
		wantCount int
		wantErr   string
	}

	tests := []testCase{
		{
			name:  "Success",
			input: wallet,
			setupMock: func(repo *ledger.MockRepository, itx *ledger.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
				itx.EXPECT().ExistingIDs(gomock.Any(), gomock.Len(2)).Return(nil, nil)
				itx.EXPECT().AppendTransactions(gomock.Any(), gomock.Len(2)).Return(nil)
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil).AnyTimes()
			},
			wantCount: 2,
		},
		{
			name:    "UnknownFormat",
			input:   "a;b\n1;2\n",
			wantErr: "parsing statement",
		},
		{
			name:  "StoreFailure",
			input: wallet,
			setupMock: func(repo *ledger.MockRepository, _ *ledger.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantErr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := ledger.NewMockRepository(ctrl)
			itx := ledger.NewMockImportTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, itx)
			}

			svc := importer.NewService(ledger.NewService(repo), nil)
			got, err := svc.Import(context.Background(), strings.NewReader(tt.input))

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Imported, tt.wantCount)
			assert.Empty(t, got.Skipped)
		})
	}
}
