package domain

import "github.com/studiokawa/proofroom"

// ComputeGalleryStatus derives the coarse gallery status from its counters.
// The order of the checks matters: a fully approved gallery wins over one
// with lingering denial history, and any denial outranks partial progress.
func ComputeGalleryStatus(total, approved, denied int) proofroom.GalleryStatus {
	switch {
	case total == 0:
		return proofroom.GalleryPending
	case approved == total:
		return proofroom.GalleryApproved
	case denied > 0:
		return proofroom.GalleryHasDenials
	case approved > 0 || denied > 0:
		return proofroom.GalleryPartial
	default:
		return proofroom.GalleryPending
	}
}

// CounterDelta returns the approved/denied counter adjustments for a proof
// moving from one status to another. A pending proof has no counter.
func CounterDelta(from, to proofroom.ProofStatus) (approved, denied int) {
	switch from {
	case proofroom.ProofApproved:
		approved--
	case proofroom.ProofDenied:
		denied--
	}
	switch to {
	case proofroom.ProofApproved:
		approved++
	case proofroom.ProofDenied:
		denied++
	}
	return approved, denied
}
