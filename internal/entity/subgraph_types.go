package entity

// GraphQLRequest is the POST body sent to a subgraph endpoint.
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Message string `json:"message"`
}

// OptionsResponse is the payload of the options listing query.
type OptionsResponse struct {
	Data struct {
		Options []SubgraphOption `json:"options"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// PositionsResponse is the payload of the user positions query.
type PositionsResponse struct {
	Data struct {
		Positions []SubgraphPosition `json:"positions"`
	} `json:"data"`
	Errors []GraphQLError `json:"errors"`
}

// SubgraphOption is an indexed option and the pool trading it, if any.
type SubgraphOption struct {
	ID         string        `json:"id"`
	Decimals   string        `json:"decimals"`
	Expiration string        `json:"expiration"`
	Pool       *SubgraphPool `json:"pool"`
}

// SubgraphPool is an indexed pool reference.
type SubgraphPool struct {
	ID string `json:"id"`
}

// SubgraphPosition is a user's indexed liquidity history for one option.
// Amounts are raw integers rendered as strings.
type SubgraphPosition struct {
	ID                     string         `json:"id"`
	User                   SubgraphUser   `json:"user"`
	Option                 SubgraphOption `json:"option"`
	InitialOptionsProvided string         `json:"initialOptionsProvided"`
	FinalOptionsRemoved    string         `json:"finalOptionsRemoved"`
}

// SubgraphUser is an indexed account reference.
type SubgraphUser struct {
	ID string `json:"id"`
}
