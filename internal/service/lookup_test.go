package service_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/LorenzoPeve/rag-reddit/internal/service"
	"github.com/LorenzoPeve/rag-reddit/internal/service/mocks"

	"go.uber.org/mock/gomock"
)

func TestLookupService_FindURLs(t *testing.T) {
	tests := []struct {
		name      string
		ids       []string
		mockSetup func(m *mocks.MockPermalinkStore)
		want      map[string]string
		wantErr   bool
	}{
		{
			name: "known and unknown ids",
			ids:  []string{"p1", "nope"},
			mockSetup: func(m *mocks.MockPermalinkStore) {
				m.EXPECT().
					Permalinks(gomock.Any(), []string{"p1", "nope"}).
					Return(map[string]string{"p1": "https://www.reddit.com/r/dataengineering/comments/p1/x/"}, nil)
			},
			want: map[string]string{"p1": "https://www.reddit.com/r/dataengineering/comments/p1/x/"},
		},
		{
			name: "empty ids skip the store",
			ids:  []string{},
			want: map[string]string{},
		},
		{
			name: "nil result becomes empty map",
			ids:  []string{"nope"},
			mockSetup: func(m *mocks.MockPermalinkStore) {
				m.EXPECT().Permalinks(gomock.Any(), []string{"nope"}).Return(nil, nil)
			},
			want: map[string]string{},
		},
		{
			name: "store error",
			ids:  []string{"p1"},
			mockSetup: func(m *mocks.MockPermalinkStore) {
				m.EXPECT().Permalinks(gomock.Any(), []string{"p1"}).Return(nil, errors.New("database is locked"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockPermalinkStore(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(store)
			}

			got, err := service.NewLookupService(store).FindURLs(testContext(), tt.ids)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindURLs() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindURLs() = %v, want %v", got, tt.want)
			}
		})
	}
}
