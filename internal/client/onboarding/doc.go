// Package onboarding holds the first-run registration flow: the in-memory
// draft that step screens accumulate, the validation rules that gate each
// step, and the calls that hand the finished draft to the backend.
//
// A State lives exactly as long as the flow is on screen. Leaving the flow
// drops it, and with it everything the user typed.
package onboarding
