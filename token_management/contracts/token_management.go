package contracts

// ITokenManagement tracks approximate token usage across provider calls so
// the watch command can report totals at shutdown.
type ITokenManagement interface {
	UsedTokens(prompt string, completion string)
	DisplayTokens(provider string, model string)
	ClearToken()
}
