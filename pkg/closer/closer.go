// Package closer останавливает ресурсы приложения в порядке, обратном регистрации.
package closer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name  string
	close Func
}

// Closer обеспечивает потокобезопасное закрытие ресурсов.
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
}

// NewCloser создаёт Closer. forcedTimeout: время на принудительное закрытие
// ресурсов, до которых не дошла очередь к истечению контекста Close; 0: 2 секунды.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс. Имя попадает в текст ошибки закрытия.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, close: f})
}

// Close закрывает ресурсы по одному в порядке LIFO. Повторный вызов ничего не делает.
// Если ctx истекает раньше, оставшиеся ресурсы закрываются параллельно с собственным таймаутом.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		remaining, failures := c.closeInOrder(ctx, resources)
		if len(remaining) > 0 {
			failures = append(failures, c.forceClose(remaining)...)
			err = fmt.Errorf("shutdown interrupted, %d/%d closed in order:\n%s",
				len(resources)-len(remaining), len(resources), strings.Join(failures, "\n"))
			return
		}

		if len(failures) > 0 {
			err = fmt.Errorf("shutdown finished with error(s):\n%s", strings.Join(failures, "\n"))
		}
	})

	return err
}

// closeInOrder возвращает ресурсы, до которых не дошла очередь (включая прерванный).
func (c *Closer) closeInOrder(ctx context.Context, resources []resource) ([]resource, []string) {
	var failures []string
	for i := len(resources) - 1; i >= 0; i-- {
		r := resources[i]
		done := make(chan error, 1)
		go func() { done <- r.close(ctx) }()

		select {
		case err := <-done:
			if err != nil {
				failures = append(failures, fmt.Sprintf("[!] %s: %v", r.name, err))
			}
		case <-ctx.Done():
			return resources[:i+1], failures
		}
	}

	return nil, failures
}

func (c *Closer) forceClose(resources []resource) []string {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures []string
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, r := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.close(ctx); err != nil {
				mu.Lock()
				failures = append(failures, fmt.Sprintf("[FORCED] %s: %v", r.name, err))
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return failures
}
