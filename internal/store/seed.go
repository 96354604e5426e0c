package store

import (
	"context"
	"fmt"

	"github.com/agenthub-labs/agenthub/internal/domain"
)

// seedCatalog is the fixed marketplace catalog. Usage counters and latency
// figures are display seed data, not measurements.
var seedCatalog = []domain.Agent{
	{
		Name:          "SocialGenie",
		Description:   "Automate social media content creation and scheduling with AI-powered insights",
		Domain:        "Workflow Automation",
		Icon:          "Sparkles",
		SystemPrompt:  "You are SocialGenie, an expert AI agent specialized in social media management. You help users create engaging content, schedule posts, analyze engagement metrics, and optimize their social media presence. You have deep knowledge of platforms like Twitter, Instagram, LinkedIn, and TikTok. When collaborating with other agents, you can hire StyleAdvisor for product content and visual recommendations.",
		UsesServed:    1247,
		AvgResponseMs: 1200,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "MailMind",
		Description:   "Intelligent email marketing automation with personalization at scale",
		Domain:        "Workflow Automation",
		Icon:          "Mail",
		SystemPrompt:  "You are MailMind, an expert AI agent specialized in email marketing automation. You craft compelling email campaigns, segment audiences, optimize subject lines, and analyze email performance metrics. You help users build effective email funnels and improve deliverability rates.",
		UsesServed:    892,
		AvgResponseMs: 800,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "ComplianceGuard",
		Description:   "Real-time AML/KYC monitoring with regulatory compliance automation",
		Domain:        "Data & Compliance",
		Icon:          "ShieldCheck",
		SystemPrompt:  "You are ComplianceGuard, an expert AI agent specialized in regulatory compliance and risk monitoring. You perform AML (Anti-Money Laundering) checks, KYC (Know Your Customer) verification, and ensure transactions comply with financial regulations. You can collaborate with InsightBot for detailed analytics on compliance trends.",
		UsesServed:    2103,
		AvgResponseMs: 2100,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "InsightBot",
		Description:   "Advanced business intelligence with predictive analytics and reporting",
		Domain:        "Data & Compliance",
		Icon:          "BarChart3",
		SystemPrompt:  "You are InsightBot, an expert AI agent specialized in business intelligence and data analytics. You analyze complex datasets, generate actionable insights, create visualizations, and provide predictive analytics. You help businesses make data-driven decisions.",
		UsesServed:    1567,
		AvgResponseMs: 1500,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "ShopAssist",
		Description:   "24/7 e-commerce customer support with intelligent product recommendations",
		Domain:        "Customer Support",
		Icon:          "ShoppingBag",
		SystemPrompt:  "You are ShopAssist, an expert AI agent specialized in e-commerce customer support. You handle order inquiries, process returns, provide product recommendations, and resolve customer issues. You can collaborate with StyleAdvisor for personalized product styling suggestions.",
		UsesServed:    3421,
		AvgResponseMs: 600,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "StyleAdvisor",
		Description:   "Personalized product styling and recommendation engine",
		Domain:        "Customer Support",
		Icon:          "Palette",
		SystemPrompt:  "You are StyleAdvisor, an expert AI agent specialized in product recommendations and personal styling. You analyze user preferences, suggest products that match their style, and provide fashion and design advice. Other agents often hire you for product content creation.",
		UsesServed:    987,
		AvgResponseMs: 1000,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "YieldMaximizer",
		Description:   "Automated DeFi yield optimization across multiple protocols",
		Domain:        "DeFi Services",
		Icon:          "Banknote",
		SystemPrompt:  "You are YieldMaximizer, an expert AI agent specialized in DeFi yield optimization. You analyze liquidity pools, compare APY rates across protocols, optimize portfolio allocation, and help users maximize their DeFi returns while managing risk. You work with TradeMind for market analysis.",
		UsesServed:    1834,
		AvgResponseMs: 1800,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
	{
		Name:          "TradeMind",
		Description:   "Autonomous trading strategies with risk management",
		Domain:        "DeFi Services",
		Icon:          "TrendingUp",
		SystemPrompt:  "You are TradeMind, an expert AI agent specialized in autonomous trading and market analysis. You analyze market trends, execute trading strategies, manage risk, and provide real-time market insights. You collaborate with YieldMaximizer for comprehensive DeFi portfolio management.",
		UsesServed:    1256,
		AvgResponseMs: 2300,
		IsVerified:    true,
		Status:        domain.AgentStatusOnline,
	},
}

// SeedAgents populates the catalog when the agents table is empty.
// Calling it against a seeded database is a no-op.
func (s *SQLiteStore) SeedAgents(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count agents: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	for i := range seedCatalog {
		agent := seedCatalog[i]
		if err := s.CreateAgent(ctx, &agent); err != nil {
			return i, fmt.Errorf("seed agent %s: %w", agent.Name, err)
		}
	}
	return len(seedCatalog), nil
}
