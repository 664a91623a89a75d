package demo

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zhubert/scrollback/internal/chat"
)

// Duration is a time.Duration written as a string such as "500ms" in
// scenario files.
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

type scenarioFile struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Width       int        `yaml:"width"`
	Height      int        `yaml:"height"`
	Chat        *chatFile  `yaml:"chat"`
	Steps       []stepFile `yaml:"steps"`
}

type chatFile struct {
	Pages      int      `yaml:"pages"`
	PageSize   int      `yaml:"page_size"`
	Latency    Duration `yaml:"latency"`
	ReplyDelay Duration `yaml:"reply_delay"`
	FailRate   float64  `yaml:"fail_rate"`
	Seed       uint64   `yaml:"seed"`
}

// stepFile holds exactly one action.
type stepFile struct {
	Description string `yaml:"description"`

	Wait     *Duration     `yaml:"wait"`
	Key      string        `yaml:"key"`
	Type     string        `yaml:"type"`
	Resize   *sizeFile     `yaml:"resize"`
	Incoming *incomingFile `yaml:"incoming"`
	Blur     bool          `yaml:"blur"`
	Focus    bool          `yaml:"focus"`
	Capture  bool          `yaml:"capture"`
	Annotate string        `yaml:"annotate"`
}

type sizeFile struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type incomingFile struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

// LoadScenarioFile reads a scenario written in YAML.
func LoadScenarioFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// ParseScenario parses and validates a YAML scenario.
func ParseScenario(data []byte) (*Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	s := &Scenario{
		Name:        f.Name,
		Description: f.Description,
		Width:       f.Width,
		Height:      f.Height,
	}
	if f.Chat != nil {
		s.Chat = f.Chat.options()
	}

	for i, sf := range f.Steps {
		step, err := sf.step()
		if err != nil {
			return nil, &ValidationError{Field: stepField(i), Message: err.Error()}
		}
		s.Steps = append(s.Steps, step)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// options overlays the fields set in the file on DefaultChat.
func (c *chatFile) options() *chat.DemoOptions {
	opts := DefaultChat()
	if c.Pages > 0 {
		opts.Pages = c.Pages
	}
	if c.PageSize > 0 {
		opts.PageSize = c.PageSize
	}
	if c.Latency.Duration > 0 {
		opts.Latency = c.Latency.Duration
	}
	if c.ReplyDelay.Duration > 0 {
		opts.ReplyDelay = c.ReplyDelay.Duration
	}
	if c.FailRate > 0 {
		opts.FailRate = c.FailRate
	}
	if c.Seed != 0 {
		opts.Seed = c.Seed
	}
	return opts
}

func (sf stepFile) step() (Step, error) {
	var steps []Step
	if sf.Wait != nil {
		steps = append(steps, Wait(sf.Wait.Duration))
	}
	if sf.Key != "" {
		steps = append(steps, Key(sf.Key))
	}
	if sf.Type != "" {
		steps = append(steps, Type(sf.Type))
	}
	if sf.Resize != nil {
		steps = append(steps, Resize(sf.Resize.Width, sf.Resize.Height))
	}
	if sf.Incoming != nil {
		steps = append(steps, Incoming(sf.Incoming.Author, sf.Incoming.Text))
	}
	if sf.Blur {
		steps = append(steps, Blur())
	}
	if sf.Focus {
		steps = append(steps, Focus())
	}
	if sf.Capture {
		steps = append(steps, Capture())
	}
	if sf.Annotate != "" {
		steps = append(steps, Annotate(sf.Annotate))
	}

	switch len(steps) {
	case 0:
		return Step{}, fmt.Errorf("step has no action")
	case 1:
		step := steps[0]
		step.Description = sf.Description
		return step, nil
	default:
		return Step{}, fmt.Errorf("step has %d actions, want one", len(steps))
	}
}
