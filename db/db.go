package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"

	"zc_toolbox_bot/config"
	"zc_toolbox_bot/models"
)

// Reporter identifies the user filing a ticket.
type Reporter struct {
	TelegramID int64
	Username   string
	FirstName  string
}

// TicketDraft holds the fields collected from the user before a ticket
// exists. The store fills in id, status and created_at.
type TicketDraft struct {
	Feature     models.Feature
	CourseCode  string
	Description string
}

type Store struct {
	driver neo4j.DriverWithContext
	now    func() time.Time
}

func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPass, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("connect to neo4j: %w", err)
	}

	return &Store{driver: driver, now: time.Now}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

const createTicketCypher = `
MERGE (u:User {telegram_id: $user_id})
ON CREATE SET u.username = $username, u.first_name = $first_name
CREATE (t:Ticket {
    id: $ticket_id,
    feature: $feature,
    course_code: $course_code,
    description: $description,
    status: $status,
    created_at: $created_at
})
MERGE (u)-[:REPORTED]->(t)`

// CreateTicket writes one open ticket linked to the reporting user,
// creating the user node if needed. The whole statement runs as a
// single auto-commit query, so a failure leaves nothing behind.
func (s *Store) CreateTicket(ctx context.Context, reporter Reporter, draft TicketDraft) (models.Ticket, error) {
	t := models.Ticket{
		ID:          uuid.NewString(),
		Feature:     draft.Feature,
		CourseCode:  draft.CourseCode,
		Description: draft.Description,
		Status:      models.StatusOpen,
		CreatedAt:   s.now().UTC(),
	}

	var courseCode any
	if t.CourseCode != "" {
		courseCode = t.CourseCode
	}

	_, err := neo4j.ExecuteQuery(ctx, s.driver, createTicketCypher, map[string]any{
		"user_id":     reporter.TelegramID,
		"username":    reporter.Username,
		"first_name":  reporter.FirstName,
		"ticket_id":   t.ID,
		"feature":     string(t.Feature),
		"course_code": courseCode,
		"description": t.Description,
		"status":      string(t.Status),
		"created_at":  t.CreatedAt,
	}, neo4j.EagerResultTransformer)
	if err != nil {
		return models.Ticket{}, fmt.Errorf("create ticket: %w", err)
	}

	return t, nil
}

const listOpenCypher = `
MATCH (t:Ticket {status: $status})
RETURN t.id AS id, t.feature AS feature, t.course_code AS course_code,
       t.description AS description, t.created_at AS created_at
ORDER BY t.created_at DESC
LIMIT $limit`

// ListOpenTickets returns up to limit open tickets, newest first.
func (s *Store) ListOpenTickets(ctx context.Context, limit int) ([]models.Ticket, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, listOpenCypher, map[string]any{
		"status": string(models.StatusOpen),
		"limit":  limit,
	}, neo4j.EagerResultTransformer)
	if err != nil {
		return nil, fmt.Errorf("list open tickets: %w", err)
	}

	tickets := make([]models.Ticket, 0, len(result.Records))
	for _, record := range result.Records {
		tickets = append(tickets, ticketFromRecord(record.AsMap()))
	}
	return tickets, nil
}

// ticketFromRecord maps one query row to a Ticket. course_code is null
// on tickets for features that do not track a course.
func ticketFromRecord(row map[string]any) models.Ticket {
	t := models.Ticket{Status: models.StatusOpen}
	if v, ok := row["id"].(string); ok {
		t.ID = v
	}
	if v, ok := row["feature"].(string); ok {
		t.Feature = models.Feature(v)
	}
	if v, ok := row["course_code"].(string); ok {
		t.CourseCode = v
	}
	if v, ok := row["description"].(string); ok {
		t.Description = v
	}
	switch v := row["created_at"].(type) {
	case time.Time:
		t.CreatedAt = v
	case dbtype.LocalDateTime:
		t.CreatedAt = v.Time()
	}
	return t
}
