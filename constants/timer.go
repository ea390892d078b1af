package constants

import "time"

// Timer Defaults
const (
	// DefaultMinutes is the classic pomodoro work interval
	DefaultMinutes = 25
	DefaultSeconds = 0

	// TickInterval is the countdown step
	TickInterval = time.Second

	// AlertDelay separates the alarm sound from the alert dialog so they do not collide
	AlertDelay = 500 * time.Millisecond

	// ExpiryMessage is shown when the countdown reaches zero
	ExpiryMessage = "Time is up!"
)

// UI Constants
const (
	// MinutesFieldWidth bounds typed minute digits
	MinutesFieldWidth = 3

	// SecondsFieldWidth bounds typed second digits
	SecondsFieldWidth = 2

	// RingSegments is the number of cells sampled around the progress ring
	RingSegments = 96

	// FrameInterval is the minimum gap between redraws triggered by input bursts
	FrameInterval = 16 * time.Millisecond
)
