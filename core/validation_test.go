package core

import (
	"errors"
	"slices"
	"testing"
)

func TestValidateArtifact(t *testing.T) {
	tests := []struct {
		name     string
		artifact *Artifact
		wantErr  error
	}{
		{
			name: "valid artifact",
			artifact: &Artifact{
				ID:          1,
				Title:       "Lakhe Mask",
				Description: "A sacred mask",
				Keywords:    []string{"mask"},
			},
			wantErr: nil,
		},
		{
			name: "valid artifact without language or keywords",
			artifact: &Artifact{
				ID:          7,
				Title:       "Sarangi",
				Description: "A bowed string instrument",
			},
			wantErr: nil,
		},
		{
			name:     "nil artifact",
			artifact: nil,
			wantErr:  ErrInvalidArtifact,
		},
		{
			name: "zero id",
			artifact: &Artifact{
				Title:       "Untitled",
				Description: "Something",
			},
			wantErr: ErrInvalidArtifactID,
		},
		{
			name: "negative id",
			artifact: &Artifact{
				ID:          -4,
				Title:       "Untitled",
				Description: "Something",
			},
			wantErr: ErrInvalidArtifactID,
		},
		{
			name: "blank title",
			artifact: &Artifact{
				ID:          2,
				Title:       "   ",
				Description: "Something",
			},
			wantErr: ErrEmptyTitle,
		},
		{
			name: "empty description",
			artifact: &Artifact{
				ID:    2,
				Title: "Damphu Drum",
			},
			wantErr: ErrEmptyDescription,
		},
		{
			name: "blank keyword",
			artifact: &Artifact{
				ID:          3,
				Title:       "Tharu Wall Art",
				Description: "Mud wall murals",
				Keywords:    []string{"art", " "},
			},
			wantErr: ErrEmptyKeyword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateArtifact(tt.artifact)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateArtifact() unexpected error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateArtifact() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidArtifact) {
				t.Errorf("ValidateArtifact() error = %v, should wrap ErrInvalidArtifact", err)
			}
		})
	}
}

func TestSeedArtifactsAreValid(t *testing.T) {
	for _, a := range SeedArtifacts() {
		if err := ValidateArtifact(a); err != nil {
			t.Errorf("seed artifact %d invalid: %v", a.ID, err)
		}
	}
}

func TestNormalizeKeywords(t *testing.T) {
	got := NormalizeKeywords([]string{" Mask", "FESTIVAL", "mask", "", "Indra Jatra "})
	want := []string{"mask", "festival", "indra jatra"}
	if !slices.Equal(got, want) {
		t.Errorf("NormalizeKeywords() = %v, want %v", got, want)
	}

	if got := NormalizeKeywords(nil); len(got) != 0 {
		t.Errorf("NormalizeKeywords(nil) = %v, want empty", got)
	}
}
