package models

// Facts is the structured set of business facts shared by the landing page
// and the sales assistant's system prompt.
type Facts struct {
	Company     string        `yaml:"company" json:"company"`
	Founder     string        `yaml:"founder" json:"founder"`
	CalendarURL string        `yaml:"calendar_url" json:"calendar_url"`
	LinkedIn    LinkedInOffer `yaml:"linkedin" json:"linkedin"`
	Plans       []PricingTier `yaml:"plans" json:"plans"`
	Services    []ServiceItem `yaml:"services" json:"services"`
	Phases      []Phase       `yaml:"phases" json:"phases"`
	Benchmarks  Benchmarks    `yaml:"benchmarks" json:"benchmarks"`
	Philosophy  []string      `yaml:"philosophy" json:"philosophy"`
	FAQ         []FAQItem     `yaml:"faq" json:"faq"`
}

// LinkedInOffer is the hero offering: per-profile DM outreach.
type LinkedInOffer struct {
	IntroPrice           int      `yaml:"intro_price" json:"intro_price"`
	IntroMonths          int      `yaml:"intro_months" json:"intro_months"`
	StandardPrice        int      `yaml:"standard_price" json:"standard_price"`
	ReachPerMonth        string   `yaml:"reach_per_month" json:"reach_per_month"`
	AcceptanceRate       string   `yaml:"acceptance_rate" json:"acceptance_rate"`
	ReplyRate            string   `yaml:"reply_rate" json:"reply_rate"`
	ConversionMultiplier int      `yaml:"conversion_multiplier" json:"conversion_multiplier"`
	Tech                 []string `yaml:"tech" json:"tech"`
	Precondition         string   `yaml:"precondition" json:"precondition"`
	Rationale            string   `yaml:"rationale" json:"rationale,omitempty"`
}

type PricingTier struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Price    int      `yaml:"price" json:"price"`
	Period   string   `yaml:"period" json:"period"`
	Focus    string   `yaml:"focus" json:"focus"`
	Volume   string   `yaml:"volume" json:"volume"`
	Summary  string   `yaml:"summary" json:"summary"`
	Features []string `yaml:"features" json:"features"`
	Popular  bool     `yaml:"popular" json:"popular"`
}

type ServiceItem struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Category    string `yaml:"category" json:"category"`
	Image       string `yaml:"image" json:"image"`
	Highlight   string `yaml:"highlight" json:"highlight"`
	Description string `yaml:"description" json:"description"`
}

type Phase struct {
	Name        string `yaml:"name" json:"name"`
	Duration    string `yaml:"duration" json:"duration"`
	Description string `yaml:"description" json:"description"`
}

type Benchmarks struct {
	MedianROIPercent  int `yaml:"median_roi_percent" json:"median_roi_percent"`
	ROIMonths         int `yaml:"roi_months" json:"roi_months"`
	MaxROIPercent     int `yaml:"max_roi_percent" json:"max_roi_percent"`
	VisibilityPercent int `yaml:"visibility_percent" json:"visibility_percent"`
}

type FAQItem struct {
	Question string `yaml:"question" json:"question"`
	Answer   string `yaml:"answer" json:"answer"`
}
