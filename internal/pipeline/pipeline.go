// Package pipeline drives a candidate producer with the pull loop the
// planning pipeline uses: ask whether more candidates exist, produce one,
// hand it to the downstream consumer, repeat until exhaustion or failure.
package pipeline

import (
	"fmt"

	"github.com/gantry-robotics/graspgen/internal/grasp"
)

// Producer is the stage contract: a side-effect-free liveness query plus a
// stateful single-step producer. grasp.Generator satisfies it.
type Producer interface {
	CanProduceMore() bool
	ProduceNext() (*grasp.Candidate, error)
}

// Consumer receives each produced candidate. Returning an error stops the
// run immediately.
type Consumer func(*grasp.Candidate) error

// Run pulls candidates from p and forwards each to consume, serially, until
// p is exhausted or an error occurs. It returns the number of candidates
// consumed. Producer errors (fatal configuration or frame-resolution
// failures) are propagated verbatim and are never converted into an empty
// run.
func Run(p Producer, consume Consumer) (int, error) {
	n := 0
	for p.CanProduceMore() {
		c, err := p.ProduceNext()
		if err != nil {
			return n, err
		}
		if c == nil {
			// producer decided it was done between the query and the pull
			break
		}
		if err := consume(c); err != nil {
			return n, fmt.Errorf("consumer failed on candidate %q: %w", c.Trajectory.Name, err)
		}
		n++
	}
	return n, nil
}

// Collect runs p to exhaustion and returns every candidate.
func Collect(p Producer) ([]*grasp.Candidate, error) {
	var out []*grasp.Candidate
	_, err := Run(p, func(c *grasp.Candidate) error {
		out = append(out, c)
		return nil
	})
	return out, err
}
