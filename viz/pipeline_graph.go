// ABOUTME: Pipeline graph generation with Graphviz
// ABOUTME: Renders accounts, contacts, and opportunities as a DOT graph
package viz

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/harperreed/pipecrm/crm"
	"github.com/harperreed/pipecrm/pipeline"
)

// GraphGenerator renders the pipeline as a Graphviz graph.
type GraphGenerator struct {
	opportunities *pipeline.Service
	accounts      *crm.Accounts
	contacts      *crm.Contacts
}

func NewGraphGenerator(opps *pipeline.Service, accounts *crm.Accounts, contacts *crm.Contacts) *GraphGenerator {
	return &GraphGenerator{
		opportunities: opps,
		accounts:      accounts,
		contacts:      contacts,
	}
}

// GeneratePipelineGraph creates a graph with accounts, contacts, and
// opportunities, with edges for account ownership and contact involvement.
func (g *GraphGenerator) GeneratePipelineGraph(ctx context.Context) (string, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create graphviz: %w", err)
	}
	defer func() {
		if err := gv.Close(); err != nil {
			fmt.Printf("Error closing graphviz: %v\n", err)
		}
	}()

	graph, err := gv.Graph()
	if err != nil {
		return "", fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() {
		if err := graph.Close(); err != nil {
			fmt.Printf("Error closing graph: %v\n", err)
		}
	}()

	graph.SetLabel("Sales Pipeline")

	accounts, err := g.accounts.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch accounts: %w", err)
	}

	contacts, err := g.contacts.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch contacts: %w", err)
	}

	opps, err := g.opportunities.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to fetch opportunities: %w", err)
	}

	accountNodes := make(map[string]*cgraph.Node)
	for _, account := range accounts {
		node, err := graph.CreateNodeByName(fmt.Sprintf("account_%s", account.ID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create account node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n(Account)", account.Name))
		node.SetShape("box")
		node.SetStyle("filled")
		node.SetFillColor("lightblue")
		accountNodes[account.ID.String()] = node
	}

	contactNodes := make(map[string]*cgraph.Node)
	for _, contact := range contacts {
		node, err := graph.CreateNodeByName(fmt.Sprintf("contact_%s", contact.ID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create contact node: %w", err)
		}
		node.SetLabel(fmt.Sprintf("%s\n%s", contact.Name, contact.Email))
		node.SetShape("ellipse")
		node.SetStyle("filled")
		node.SetFillColor("lightgreen")
		contactNodes[contact.ID.String()] = node

		if contact.AccountID != nil {
			if accountNode, ok := accountNodes[contact.AccountID.String()]; ok {
				edge, err := graph.CreateEdgeByName("works_at", node, accountNode)
				if err != nil {
					return "", fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetLabel("works at")
				edge.SetStyle("dashed")
			}
		}
	}

	for _, opp := range opps {
		node, err := graph.CreateNodeByName(fmt.Sprintf("opp_%s", opp.ID.String()[:8]))
		if err != nil {
			return "", fmt.Errorf("failed to create opportunity node: %w", err)
		}
		valueK := opp.Value / 100000
		node.SetLabel(fmt.Sprintf("%s\n$%dK\n(%s)", opp.Title, valueK, opp.Stage))
		node.SetShape("diamond")
		node.SetStyle("filled")
		node.SetFillColor("lightyellow")

		if accountNode, ok := accountNodes[opp.AccountID.String()]; ok {
			edge, err := graph.CreateEdgeByName("opp_with", accountNode, node)
			if err != nil {
				return "", fmt.Errorf("failed to create edge: %w", err)
			}
			edge.SetLabel("opportunity")
		}

		for _, contactID := range opp.ContactIDs {
			if contactNode, ok := contactNodes[contactID.String()]; ok {
				edge, err := graph.CreateEdgeByName("involved_in", contactNode, node)
				if err != nil {
					return "", fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetLabel("involved")
				edge.SetStyle("dotted")
			}
		}
	}

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, graphviz.XDOT, &buf); err != nil {
		return "", fmt.Errorf("failed to render graph: %w", err)
	}

	return buf.String(), nil
}
