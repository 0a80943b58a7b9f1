package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Node types inside a conversation structure. Nodes without an explicit
// type are treated as option nodes, matching the authoring tool's output.
const (
	NodeTypeOptions  = "options"
	NodeTypeQuestion = "question"
)

// Conversation holds a branching dialogue tree for an NPC. The structure is
// stored as JSON in the database and authored by the game editor.
type Conversation struct {
	ID        uuid.UUID             `json:"id" db:"id"`
	GameID    uuid.UUID             `json:"game_id" db:"game_id"`
	Name      string                `json:"name" db:"name"`
	Structure ConversationStructure `json:"structure" db:"structure"`
}

// ConversationStructure is the dialogue graph: a start node id and a map of
// node id to node.
type ConversationStructure struct {
	StartNode string                      `json:"start_node"`
	Nodes     map[string]ConversationNode `json:"nodes"`
}

// ConversationNode is one step in a dialogue. Option nodes present a
// numbered choice list; question nodes expect a free-text answer. An option
// node with an empty option list is a terminal node.
type ConversationNode struct {
	Type    string               `json:"type,omitempty"`
	NPCText string               `json:"npc_text"`
	Options []ConversationOption `json:"options,omitempty"`

	// Question node fields.
	ExpectedAnswer       string `json:"expected_answer,omitempty"`
	CorrectNPCResponse   string `json:"correct_npc_response,omitempty"`
	IncorrectNPCResponse string `json:"incorrect_npc_response,omitempty"`
	NextNodeCorrect      string `json:"next_node_correct,omitempty"`
	NextNodeIncorrect    string `json:"next_node_incorrect,omitempty"`
	ActionOnCorrect      string `json:"action_on_correct,omitempty"`

	// Action executed when this node is entered.
	Action string `json:"action,omitempty"`
	// Farewell shown when the conversation ends on this node.
	EndText string `json:"end_text,omitempty"`
}

// NodeType returns the effective node type, defaulting to options.
func (n ConversationNode) NodeType() string {
	if n.Type == "" {
		return NodeTypeOptions
	}
	return n.Type
}

// ConversationOption is one selectable reply on an options node.
type ConversationOption struct {
	Text        string `json:"text"`
	NPCResponse string `json:"npc_response,omitempty"`
	NextNode    string `json:"next_node,omitempty"`
	Action      string `json:"action,omitempty"`
}

// ParseConversationStructure decodes the raw JSON structure column.
func ParseConversationStructure(raw []byte) (ConversationStructure, error) {
	var s ConversationStructure
	if err := json.Unmarshal(raw, &s); err != nil {
		return ConversationStructure{}, fmt.Errorf("invalid conversation structure: %w", err)
	}
	return s, nil
}
