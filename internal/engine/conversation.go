package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"adventure-server/internal/metrics"
	"adventure-server/internal/models"
	"adventure-server/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Conversation state machine. The active node id lives in the session; the
// dialogue tree itself is world data. Option and node actions run through
// the same action executor as scripts, so dialogue can hand out items and
// points.

const defaultEndText = "Gesprek beëindigd."

type conversationOutput struct {
	message        string
	inConversation bool
	nodeType       *string
}

// startConversation opens the dialogue at its start node and renders the
// opening text plus, for an options node, the numbered choice list. A start
// node that is an options node without options is terminal: its text is
// shown and no conversation becomes active.
func (e *Engine) startConversation(rc *runContext, npcID, conversationID uuid.UUID) (*conversationOutput, error) {
	conv, err := e.world.GetConversation(rc.ctx, conversationID)
	if err != nil {
		e.logger.Warn("Conversation not found",
			zap.String("conversationID", conversationID.String()), zap.Error(err))
		return nil, errors.New("Conversation structure not found or invalid.")
	}

	startNode, ok := conv.Structure.Nodes[conv.Structure.StartNode]
	if conv.Structure.StartNode == "" || !ok {
		return nil, errors.New("Invalid start node in conversation.")
	}

	nodeType := startNode.NodeType()
	var b strings.Builder
	b.WriteString(startNode.NPCText)
	b.WriteString("\n")

	terminal := false
	if nodeType == models.NodeTypeOptions {
		if len(startNode.Options) == 0 {
			terminal = true
		} else {
			b.WriteString(renderOptions(startNode.Options))
		}
	}

	if !terminal {
		rc.state.ActiveConversation = &session.ActiveConversation{
			NPCID:          npcID,
			ConversationID: conversationID,
			CurrentNodeID:  conv.Structure.StartNode,
		}
	}
	metrics.ConversationsStarted.Inc()

	return &conversationOutput{
		message:        b.String(),
		inConversation: !terminal,
		nodeType:       &nodeType,
	}, nil
}

// StartConversation is the boundary form of startConversation.
func (e *Engine) StartConversation(ctx context.Context, userID, gameID, npcID, conversationID uuid.UUID) (*models.CommandResult, error) {
	rc := e.newRunContext(ctx, userID, gameID, nil)
	out, err := e.startConversation(rc, npcID, conversationID)
	if err != nil {
		return nil, err
	}
	return &models.CommandResult{
		Message:        strings.TrimSpace(out.message),
		InConversation: out.inConversation,
		NodeType:       out.nodeType,
		CurrentScore:   rc.state.Score(),
	}, nil
}

// HandleConversationInput advances the active dialogue with the player's
// input. Missing conversation or node data ends the conversation with an
// error message instead of failing the request.
func (e *Engine) HandleConversationInput(ctx context.Context, userID, gameID uuid.UUID, input string) (*models.CommandResult, error) {
	rc := e.newRunContext(ctx, userID, gameID, nil)
	ac := rc.state.ActiveConversation
	if ac == nil {
		return nil, models.ErrNotInConversation
	}

	conv, err := e.world.GetConversation(ctx, ac.ConversationID)
	if err != nil || len(conv.Structure.Nodes) == 0 {
		e.logger.Warn("Conversation data missing while in conversation",
			zap.String("conversationID", ac.ConversationID.String()), zap.Error(err))
		rc.state.ActiveConversation = nil
		return e.conversationResult(rc, "Conversation data error.", false, nil, 0), nil
	}

	nodes := conv.Structure.Nodes
	currentNode, ok := nodes[ac.CurrentNodeID]
	if !ok {
		e.logger.Warn("Active conversation node missing",
			zap.String("nodeID", ac.CurrentNodeID))
		rc.state.ActiveConversation = nil
		return e.conversationResult(rc, "Current conversation node invalid.", false, nil, 0), nil
	}

	var (
		responseMessage string
		npcResponse     string
		nextNodeID      string
		actionMessages  []string
		points          int
	)

	runNodeAction := func(actionText string) {
		if actionText == "" {
			return
		}
		msg, pts := parseAction(actionText).execute(rc)
		points += pts
		if msg != "" {
			actionMessages = append(actionMessages, msg)
		}
	}

	switch currentNode.NodeType() {
	case models.NodeTypeQuestion:
		if foldEq(input, currentNode.ExpectedAnswer) {
			responseMessage = orDefault(currentNode.CorrectNPCResponse, "Correct!") + "\n"
			nextNodeID = currentNode.NextNodeCorrect
			runNodeAction(currentNode.ActionOnCorrect)
		} else {
			responseMessage = orDefault(currentNode.IncorrectNPCResponse, "Dat is niet juist.") + "\n"
			nextNodeID = currentNode.NextNodeIncorrect
		}

	case models.NodeTypeOptions:
		choice, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr != nil {
			return e.repromptNode(rc, "Voer alsjeblieft een nummer in.", currentNode), nil
		}
		if choice < 1 || choice > len(currentNode.Options) {
			return e.repromptNode(rc, "Ongeldige keuze.", currentNode), nil
		}
		chosen := currentNode.Options[choice-1]
		npcResponse = chosen.NPCResponse
		nextNodeID = chosen.NextNode
		runNodeAction(chosen.Action)

	default:
		e.logger.Warn("Active conversation node has unknown type",
			zap.String("nodeID", ac.CurrentNodeID), zap.String("type", currentNode.Type))
		rc.state.ActiveConversation = nil
		return e.conversationResult(rc, defaultEndText, false, nil, 0), nil
	}

	inConversation := true
	var finalNodeType *string

	if nextNode, ok := nodes[nextNodeID]; nextNodeID != "" && ok {
		ac.CurrentNodeID = nextNodeID
		runNodeAction(nextNode.Action)

		if npcResponse != "" {
			responseMessage += npcResponse + "\n\n"
		}
		if len(actionMessages) > 0 {
			responseMessage += strings.Join(actionMessages, "\n") + "\n"
		}
		responseMessage += nextNode.NPCText + "\n"

		switch nextNode.NodeType() {
		case models.NodeTypeQuestion:
			// Stay in conversation, waiting for the answer.
		case models.NodeTypeOptions:
			if len(nextNode.Options) == 0 {
				rc.state.ActiveConversation = nil
				inConversation = false
			} else {
				responseMessage += renderOptions(nextNode.Options)
			}
		default:
			e.logger.Warn("Conversation ended on node with unknown type",
				zap.String("nodeID", nextNodeID), zap.String("type", nextNode.Type))
			rc.state.ActiveConversation = nil
			inConversation = false
		}
	} else {
		if npcResponse != "" {
			responseMessage += npcResponse + "\n\n"
		}
		if len(actionMessages) > 0 {
			responseMessage += strings.Join(actionMessages, "\n") + "\n"
		}
		responseMessage += orDefault(currentNode.EndText, defaultEndText)
		rc.state.ActiveConversation = nil
		inConversation = false
	}

	if inConversation {
		if node, ok := nodes[ac.CurrentNodeID]; ok {
			t := node.NodeType()
			finalNodeType = &t
		}
	}

	return e.conversationResult(rc, strings.TrimSpace(responseMessage), inConversation, finalNodeType, points), nil
}

// repromptNode re-renders the current node after invalid input. The node's
// own action is not executed again.
func (e *Engine) repromptNode(rc *runContext, errText string, node models.ConversationNode) *models.CommandResult {
	message := errText + "\n" + node.NPCText + "\n"
	if node.NodeType() == models.NodeTypeOptions {
		message += renderOptions(node.Options)
	}
	nodeType := node.NodeType()
	return e.conversationResult(rc, strings.TrimSpace(message), true, &nodeType, 0)
}

func (e *Engine) conversationResult(rc *runContext, message string, inConversation bool, nodeType *string, points int) *models.CommandResult {
	return &models.CommandResult{
		Message:        message,
		InConversation: inConversation,
		NodeType:       nodeType,
		CurrentScore:   rc.state.Score(),
		PointsAwarded:  points,
	}
}

func renderOptions(options []models.ConversationOption) string {
	lines := make([]string, 0, len(options))
	for i, option := range options {
		text := option.Text
		if text == "" {
			text = "..."
		}
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, text))
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
