package domain

import (
	"testing"

	"github.com/studiokawa/proofroom"
)

func TestComputeGalleryStatus(t *testing.T) {
	cases := []struct {
		name     string
		total    int
		approved int
		denied   int
		want     proofroom.GalleryStatus
	}{
		{"fresh gallery", 0, 0, 0, proofroom.GalleryPending},
		{"all pending", 10, 0, 0, proofroom.GalleryPending},
		{"some approved", 10, 6, 0, proofroom.GalleryPartial},
		{"mixed with denials", 10, 3, 2, proofroom.GalleryHasDenials},
		{"only denials", 10, 0, 1, proofroom.GalleryHasDenials},
		{"all approved", 10, 10, 0, proofroom.GalleryApproved},
		{"single approved image", 1, 1, 0, proofroom.GalleryApproved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeGalleryStatus(tc.total, tc.approved, tc.denied)
			if got != tc.want {
				t.Fatalf("ComputeGalleryStatus(%d, %d, %d) = %s, want %s",
					tc.total, tc.approved, tc.denied, got, tc.want)
			}
		})
	}
}

func TestComputeGalleryStatusReviewFlow(t *testing.T) {
	// 10 images, 3 approved, 2 denied.
	if got := ComputeGalleryStatus(10, 3, 2); got != proofroom.GalleryHasDenials {
		t.Fatalf("expected has_denials, got %s", got)
	}
	// The denied proofs get re-reviewed to approved one by one.
	if got := ComputeGalleryStatus(10, 6, 0); got != proofroom.GalleryPartial {
		t.Fatalf("expected partial after clearing denials, got %s", got)
	}
	// All ten reach approved.
	if got := ComputeGalleryStatus(10, 10, 0); got != proofroom.GalleryApproved {
		t.Fatalf("expected approved, got %s", got)
	}
}

func TestCounterDelta(t *testing.T) {
	cases := []struct {
		from, to         proofroom.ProofStatus
		approved, denied int
	}{
		{proofroom.ProofPending, proofroom.ProofApproved, 1, 0},
		{proofroom.ProofPending, proofroom.ProofDenied, 0, 1},
		{proofroom.ProofApproved, proofroom.ProofDenied, -1, 1},
		{proofroom.ProofDenied, proofroom.ProofApproved, 1, -1},
		{proofroom.ProofApproved, proofroom.ProofPending, -1, 0},
		{proofroom.ProofDenied, proofroom.ProofPending, 0, -1},
	}

	for _, tc := range cases {
		a, d := CounterDelta(tc.from, tc.to)
		if a != tc.approved || d != tc.denied {
			t.Fatalf("CounterDelta(%s, %s) = (%d, %d), want (%d, %d)",
				tc.from, tc.to, a, d, tc.approved, tc.denied)
		}
	}
}
