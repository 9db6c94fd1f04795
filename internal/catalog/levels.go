package catalog

import (
	"context"
	"errors"
	"fmt"

	"sdlc-quest/internal/domain"
)

func subject(id, name, icon, description, answer, reasoning string) domain.Subject {
	return domain.Subject{
		ID:              id,
		Name:            name,
		Icon:            icon,
		Description:     description,
		CorrectOptionID: answer,
		Reasoning:       reasoning,
	}
}

func withCritiques(s domain.Subject, critiques map[string]string) domain.Subject {
	s.Critiques = critiques
	return s
}

var levels = []domain.Level{
	{
		Number: 1,
		Title:  "Basic Matching",
		Subjects: []domain.Subject{
			subject("banking", "Banking System", "🏦", "Secure financial transactions", "waterfall", "Banking needs strict security and fixed requirements"),
			subject("grocery", "Grocery App", "🛒", "Online shopping platform", "agile", "Grocery apps need frequent updates and user feedback"),
			subject("chat", "Chat Application", "💬", "Real-time messaging", "agile", "Chat apps require rapid development and user feedback"),
		},
		Options:       options(basicOptions...),
		FirstTryBonus: 100,
		RetryBonus:    50,
	},
	{
		Number: 2,
		Title:  "The Critic",
		Subjects: []domain.Subject{
			withCritiques(
				subject("erp", "ERP System", "🏢", "Enterprise Resource Planning", "waterfall", "ERP systems need comprehensive planning and fixed requirements"),
				map[string]string{
					"agile":     "Hmm... Agile for ERP? What about fixed requirements and extensive documentation?",
					"iterative": "ERP systems are huge! Can iterative handle all those enterprise features?",
					"spiral":    "Spiral might work, but is risk analysis the main concern for ERP?",
					"vmodel":    "V-Model has testing, but ERP needs more comprehensive planning first.",
				},
			),
			withCritiques(
				subject("billing", "Billing App", "💰", "Invoice and payment system", "iterative", "Billing apps benefit from iterative improvements and testing"),
				map[string]string{
					"waterfall": "Waterfall for billing? What if payment methods change frequently?",
					"agile":     "Agile could work, but billing needs structured testing cycles.",
					"spiral":    "Is risk the main concern for a billing system?",
					"vmodel":    "V-Model is good for testing, but billing needs continuous improvements.",
				},
			),
			withCritiques(
				subject("exam", "Exam Portal", "📝", "Online examination platform", "vmodel", "Exam portals require extensive testing and verification"),
				map[string]string{
					"waterfall": "Waterfall might be too rigid for exam systems that need updates.",
					"agile":     "Agile is flexible, but exam systems need rigorous testing validation.",
					"iterative": "Iterative improvements are good, but what about comprehensive testing?",
					"spiral":    "Spiral handles risks, but exam systems need more focus on verification.",
				},
			),
		},
		Options:       options(allOptions...),
		FirstTryBonus: 150,
		RetryBonus:    75,
	},
	{
		Number: 3,
		Title:  "Beat the Clock",
		Subjects: []domain.Subject{
			subject("hospital", "Hospital Management", "🏥", "Critical patient care system", "spiral", "Hospital systems have high risks and need careful risk analysis at each phase"),
			subject("ai-chatbot", "AI Chatbot", "🤖", "Intelligent conversation system", "agile", "AI systems need continuous learning and adaptation through user feedback"),
			subject("government", "Government Portal", "🏛️", "Public service platform", "waterfall", "Government systems need strict compliance, documentation, and fixed procedures"),
		},
		Options:            options(allOptions...),
		FirstTryBonus:      200,
		RetryBonus:         100,
		TimeLimit:          15,
		TimeBonusPerSecond: 10,
	},
	{
		Number: 4,
		Title:  "Complex Systems",
		Subjects: []domain.Subject{
			subject("blockchain", "Blockchain Platform", "⛓️", "Cryptocurrency trading platform", "spiral", "Blockchain systems have high security risks and need iterative risk assessment"),
			subject("healthcare", "Healthcare Records", "🏥", "Patient management system", "vmodel", "Healthcare systems require extensive testing and validation for patient safety"),
			subject("streaming", "Video Streaming", "🎬", "On-demand video platform", "agile", "Streaming platforms need rapid feature updates and user feedback integration"),
			subject("fintech", "Digital Wallet", "💳", "Mobile payment solution", "spiral", "Financial apps require careful risk analysis for security and compliance"),
			subject("iot", "IoT Dashboard", "🌐", "Smart device monitoring", "iterative", "IoT systems benefit from incremental development and device integration testing"),
			subject("ai-platform", "AI Analytics", "🤖", "Machine learning platform", "agile", "AI platforms need continuous learning and adaptation through user feedback"),
			subject("crm", "CRM System", "👥", "Customer relationship management", "iterative", "CRM systems need gradual feature rollout and user workflow refinement"),
			subject("travel", "Travel Booking", "✈️", "Flight and hotel booking", "agile", "Travel platforms need quick adaptation to market changes and user preferences"),
			subject("logistics", "Supply Chain", "📦", "Inventory and shipping tracker", "waterfall", "Supply chain systems need comprehensive planning and integration with existing systems"),
			subject("education", "Learning Management", "📚", "Online course platform", "iterative", "Educational platforms benefit from gradual content rollout and user feedback"),
		},
		Options:       options(allOptions...),
		FirstTryBonus: 200,
		RetryBonus:    100,
	},
	{
		Number: 5,
		Title:  "Critical Systems",
		Subjects: []domain.Subject{
			subject("autonomous", "Autonomous Vehicle", "🚗", "Self-driving car software", "vmodel", "Autonomous vehicles require extensive testing and verification for safety-critical systems"),
			subject("spacecraft", "Spacecraft Control", "🚀", "Mission control software", "waterfall", "Space missions need comprehensive planning, documentation, and cannot afford failures"),
			subject("trading", "Trading Platform", "📈", "High-frequency trading system", "spiral", "Trading systems have high financial risks and need careful risk assessment"),
			subject("social-vr", "VR Social Platform", "🥽", "Virtual reality social space", "agile", "VR platforms need rapid iteration based on user experience and emerging technologies"),
			subject("nuclear", "Nuclear Plant Monitor", "⚛️", "Nuclear facility monitoring", "vmodel", "Nuclear systems require rigorous testing and validation for safety compliance"),
			subject("quantum", "Quantum Computing", "🔬", "Quantum algorithm platform", "spiral", "Quantum computing involves high technical risks and experimental approaches"),
			subject("biometric", "Biometric Security", "🔐", "Fingerprint and face recognition", "vmodel", "Biometric systems need extensive testing for accuracy and security validation"),
			subject("drone", "Drone Fleet Manager", "🛸", "Multiple drone coordination", "iterative", "Drone systems benefit from gradual feature rollout and flight testing iterations"),
			subject("satellite", "Satellite Network", "🛰️", "Global communication satellites", "waterfall", "Satellite systems require comprehensive planning as hardware changes are impossible once deployed"),
			subject("ar-surgery", "AR Surgery Assistant", "🏥", "Augmented reality for surgeons", "vmodel", "Medical AR systems require extensive validation and testing for patient safety"),
			subject("crypto-exchange", "Crypto Exchange", "₿", "Cryptocurrency trading platform", "spiral", "Crypto exchanges face high security and regulatory risks requiring careful analysis"),
			subject("smart-city", "Smart City Hub", "🏙️", "Urban infrastructure management", "iterative", "Smart city systems need gradual integration across different city departments"),
		},
		Options:       options(allOptions...),
		FirstTryBonus: 250,
		RetryBonus:    125,
	},
	{
		Number: 6,
		Title:  "Master Challenge",
		Subjects: []domain.Subject{
			subject("mars-mission", "Mars Mission Control", "🚀", "Interplanetary spacecraft control", "waterfall", "Mars missions require flawless planning as communication delays make real-time fixes impossible"),
			subject("brain-interface", "Brain-Computer Interface", "🧠", "Neural implant control system", "vmodel", "Brain interfaces require extensive validation and testing for human safety and precision"),
			subject("global-climate", "Climate Control AI", "🌍", "Planetary weather management", "spiral", "Climate systems involve enormous risks and require careful analysis of complex interactions"),
			subject("fusion-reactor", "Fusion Reactor Control", "⚡", "Nuclear fusion power plant", "vmodel", "Fusion reactors require rigorous testing and validation for safety and operational precision"),
			subject("time-machine", "Time Travel Coordinator", "⏰", "Temporal displacement system", "spiral", "Time travel involves unknown risks and paradoxes requiring extensive risk analysis"),
			subject("ai-singularity", "AGI Safety Monitor", "🤖", "Artificial General Intelligence oversight", "spiral", "AGI development involves existential risks requiring continuous risk assessment and mitigation"),
			subject("quantum-internet", "Quantum Internet Hub", "🌐", "Quantum communication network", "iterative", "Quantum networks need gradual deployment and iterative refinement of quantum protocols"),
			subject("dimensional-portal", "Dimensional Gateway", "🌀", "Interdimensional travel system", "spiral", "Dimensional travel involves unknown risks and requires extensive risk analysis and safety protocols"),
			subject("consciousness-backup", "Mind Upload System", "💾", "Human consciousness transfer", "vmodel", "Mind transfer requires extensive validation to ensure consciousness integrity and human identity"),
			subject("galactic-defense", "Galactic Defense Grid", "🛡️", "Solar system protection array", "waterfall", "Galactic defense requires comprehensive planning and cannot afford any system failures"),
			subject("reality-engine", "Reality Simulation Engine", "🎭", "Universe simulation platform", "agile", "Reality engines need rapid iteration and adaptation based on complex simulation requirements"),
			subject("evolution-accelerator", "Evolution Controller", "🧬", "Species development system", "spiral", "Evolution control involves massive biological risks requiring careful analysis and ethical considerations"),
			subject("multiverse-navigator", "Multiverse Explorer", "∞", "Parallel universe travel", "spiral", "Multiverse exploration involves infinite unknown risks requiring extensive analysis"),
			subject("god-mode-os", "Omnipotent OS", "👑", "Universal control system", "waterfall", "Universal control systems require perfect planning as omnipotent errors could destroy reality"),
			subject("destiny-weaver", "Fate Management System", "🎲", "Probability manipulation engine", "spiral", "Fate manipulation involves catastrophic risks to causality requiring continuous risk assessment"),
		},
		Options:            options(allOptions...),
		FirstTryBonus:      300,
		RetryBonus:         150,
		TimeLimit:          20,
		TimeBonusPerSecond: 15,
	},
}

// Levels returns the built-in levels in play order.
func Levels() []domain.Level {
	return append([]domain.Level(nil), levels...)
}

// Level returns built-in level n.
func Level(n int) (domain.Level, bool) {
	if n < 1 || n > len(levels) {
		return domain.Level{}, false
	}
	return levels[n-1], true
}

// StaticLoader serves the built-in levels, or a replacement set for tests and demos.
type StaticLoader struct {
	levels map[int]domain.Level
}

// NewStaticLoader serves the given levels; with none it serves the built-in catalog.
func NewStaticLoader(custom ...domain.Level) *StaticLoader {
	src := custom
	if len(src) == 0 {
		src = levels
	}
	byNumber := make(map[int]domain.Level, len(src))
	for _, l := range src {
		byNumber[l.Number] = l
	}
	return &StaticLoader{levels: byNumber}
}

func (l *StaticLoader) LoadLevel(_ context.Context, number int) (domain.Level, error) {
	if level, ok := l.levels[number]; ok {
		return level, nil
	}
	return domain.Level{}, fmt.Errorf("level %d: %w", number, domain.ErrLevelNotFound)
}

// Loader is the level loader port, as consumed by the level repositories.
type Loader interface {
	LoadLevel(ctx context.Context, number int) (domain.Level, error)
}

// FallbackLoader reads from a backing store and serves the built-in level
// when the store does not have it.
type FallbackLoader struct {
	primary  Loader
	fallback *StaticLoader
}

func NewFallbackLoader(primary Loader) *FallbackLoader {
	return &FallbackLoader{primary: primary, fallback: NewStaticLoader()}
}

func (l *FallbackLoader) LoadLevel(ctx context.Context, number int) (domain.Level, error) {
	level, err := l.primary.LoadLevel(ctx, number)
	if errors.Is(err, domain.ErrLevelNotFound) {
		return l.fallback.LoadLevel(ctx, number)
	}
	return level, err
}
