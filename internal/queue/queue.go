// Пакет queue — отложенные задачи генерации миниатюр.
// Ядро только публикует задачи; воркер, который рендерит миниатюры,
// живёт вне этого сервиса и читает ту же очередь.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ThumbnailTask — сообщение очереди генерации миниатюр.
// Контракт с внешним воркером: тот генерирует варианты 500, 250 и 100
// рядом с исходным файлом (<путь>_<размер>).
type ThumbnailTask struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}

// TaskQueue — публикация отложенных задач.
type TaskQueue interface {
	// EnqueueThumbnail отправляет задачу генерации миниатюр.
	EnqueueThumbnail(ctx context.Context, task ThumbnailTask) error
	// Close освобождает ресурсы очереди.
	Close() error
}

// AMQPQueue — публикация задач в RabbitMQ.
type AMQPQueue struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	queue  string
	logger *slog.Logger
}

// ConnectAMQP подключается к RabbitMQ и объявляет durable-очередь задач.
func ConnectAMQP(url, queueName string, logger *slog.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка создания AMQP-канала: %w", err)
	}

	// durable очередь: задачи переживают рестарт брокера
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("ошибка объявления очереди %s: %w", queueName, err)
	}

	logger.Info("Очередь задач миниатюр подключена",
		slog.String("queue", queueName),
	)

	return &AMQPQueue{
		conn:   conn,
		ch:     ch,
		queue:  queueName,
		logger: logger.With(slog.String("component", "task_queue")),
	}, nil
}

// EnqueueThumbnail публикует задачу в очередь.
func (q *AMQPQueue) EnqueueThumbnail(ctx context.Context, task ThumbnailTask) error {
	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("ошибка сериализации задачи: %w", err)
	}

	err = q.ch.PublishWithContext(ctx, "", q.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("ошибка публикации задачи: %w", err)
	}

	q.logger.Debug("Задача миниатюр опубликована",
		slog.String("file_id", task.FileID),
		slog.String("user_id", task.UserID),
	)
	return nil
}

// Close закрывает канал и подключение.
func (q *AMQPQueue) Close() error {
	if err := q.ch.Close(); err != nil {
		_ = q.conn.Close()
		return fmt.Errorf("ошибка закрытия AMQP-канала: %w", err)
	}
	return q.conn.Close()
}

// NoopQueue — заглушка очереди для запуска без RabbitMQ.
// Задачи логируются и отбрасываются; миниатюры не будут сгенерированы.
type NoopQueue struct {
	logger *slog.Logger
}

// NewNoopQueue создаёт заглушку очереди.
func NewNoopQueue(logger *slog.Logger) *NoopQueue {
	return &NoopQueue{logger: logger.With(slog.String("component", "task_queue"))}
}

// EnqueueThumbnail логирует и отбрасывает задачу.
func (q *NoopQueue) EnqueueThumbnail(_ context.Context, task ThumbnailTask) error {
	q.logger.Warn("Очередь миниатюр отключена, задача отброшена",
		slog.String("file_id", task.FileID),
	)
	return nil
}

// Close ничего не делает.
func (q *NoopQueue) Close() error { return nil }

// Проверки на этапе компиляции
var (
	_ TaskQueue = (*AMQPQueue)(nil)
	_ TaskQueue = (*NoopQueue)(nil)
)
