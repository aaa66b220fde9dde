package jobs

import (
	"regexp"
	"strings"

	"github.com/Knetic/govaluate"
	"github.com/pkg/errors"

	"github.com/rpimedia/rpimedia/config"
	"github.com/rpimedia/rpimedia/lib/cast"
)

// Condition decides whether a job acts on the current media info.
type Condition struct {
	pattern *regexp.Regexp
	negate  bool
	when    *govaluate.EvaluableExpression
	expr    string
}

// NewCondition compiles a condition. The pattern matches line by line, like
// grep, against the media info text. An empty condition always holds.
func NewCondition(conf config.ConditionConf) (*Condition, error) {
	c := &Condition{negate: conf.Negate}
	if conf.Pattern != "" {
		re, err := regexp.Compile(conf.Pattern)
		if err != nil {
			return nil, errors.Wrap(err, "condition pattern")
		}
		c.pattern = re
	}
	if conf.When != "" {
		expr, err := govaluate.NewEvaluableExpression(conf.When)
		if err != nil {
			return nil, errors.Wrap(err, "condition expression")
		}
		c.when = expr
		c.expr = conf.When
	}
	return c, nil
}

// Match evaluates the condition against info, which is nil when idle.
func (c *Condition) Match(info *cast.MediaInfo) (bool, error) {
	if c.pattern != nil {
		matched := c.matchLines(info.Text())
		if matched == c.negate {
			return false, nil
		}
	}
	if c.when != nil {
		result, err := c.when.Evaluate(info.Fields())
		if err != nil {
			return false, errors.Wrap(err, "evaluating condition")
		}
		b, ok := result.(bool)
		if !ok {
			return false, errors.Errorf("condition %q is not boolean: %v", c.expr, result)
		}
		return b, nil
	}
	return true, nil
}

// matchLines reports whether any line of text matches the pattern. Empty text
// is a single empty line.
func (c *Condition) matchLines(text string) bool {
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if c.pattern.MatchString(line) {
			return true
		}
	}
	return false
}
