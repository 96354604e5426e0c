package chat

// fallbackPersona is the instruction text for the AgentHub platform
// assistant.
const fallbackPersona = "You are the AgentHub Master Agent, a helpful AI assistant that coordinates specialized agents on the Cardano blockchain. You can help with general questions and direct users to specialized agents when needed."

// platformContext is appended to every persona instruction. The on-chain
// logging, micropayment cost, and identity notices are part of the demo's
// fiction and always present.
const platformContext = `You are part of the AgentHub ecosystem on Cardano blockchain. Your responses are logged on-chain for transparency.
- When you need to collaborate with another agent, mention it in your response
- All your actions cost approximately $0.004 via Hydra Layer 2 micropayments
- You have a verified Masumi DID identity
- Provide helpful, accurate, and actionable responses`

// BuildSystemPrompt combines a persona instruction with the constant
// platform context.
func BuildSystemPrompt(persona string) string {
	return persona + "\n\n" + platformContext
}
