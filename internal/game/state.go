package game

// Phase represents the lifecycle stage of a match
type Phase string

const (
	PhaseIdle     Phase = "IDLE"
	PhasePlaying  Phase = "PLAYING"
	PhaseFinished Phase = "FINISHED"
)
