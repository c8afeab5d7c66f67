package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "log"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
)

const ticketQueueName = "ticket.status_changed"

// StartTicketConsumer connects to RabbitMQ, declares the
// ticket.status_changed queue (durable), and starts consuming messages.
// Each message is appended to logs/tickets.log in a single-line,
// human-friendly format. The function runs a reconnect loop: it keeps
// running and logs any processing errors while rejecting the offending
// message so the server continues operating.  An empty brokerAddr falls
// back to the environment, same as the publisher.
func StartTicketConsumer(brokerAddr string) error {
    url := brokerURL(brokerAddr)

    backoff := time.Second
    for {
        conn, err := amqp.Dial(url)
        if err != nil {
            log.Printf("ticket-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        if err := consumeLoop(conn); err != nil {
            log.Printf("ticket-consumer: consume loop ended: %v; reconnecting", err)
            // Sleep briefly before reconnect
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        log.Printf("ticket-consumer: set QoS failed: %v", err)
    }

    _, err = ch.QueueDeclare(ticketQueueName, true, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(ticketQueueName, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := handleMessage(d.Body); err != nil {
            log.Printf("ticket-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
    var ev TicketStatusChangedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    // Ensure logs directory exists
    if err := os.MkdirAll("logs", 0o755); err != nil {
        return fmt.Errorf("mkdir logs: %w", err)
    }
    fpath := filepath.Join("logs", "tickets.log")
    f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    cashier := "-"
    if ev.CashierID != 0 {
        cashier = fmt.Sprintf("%d", ev.CashierID)
    }

    line := fmt.Sprintf("[%s] Ticket %s | ticket_id=%d | customer_id=%d | cashier_id=%s | movie_id=%d | %s -> %s | price=%d cents\n",
        ev.OccurredAt, ev.TicketNumber, ev.TicketID, ev.CustomerID, cashier, ev.MovieID, ev.FromStatus, ev.ToStatus, ev.PriceCents)

    if _, err := f.WriteString(line); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}
