package audit

import (
	"io"
	"os"

	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/rs/zerolog"
)

var _ stock.AuditSink = (*Logger)(nil)
var _ stock.AuditSink = Noop{}

// Logger emite un evento JSON por línea vía zerolog. Es el colaborador de
// auditoría: un registro por append al libro y por paso de migración.
// La emisión es best-effort; nunca propaga errores a la operación que audita.
type Logger struct {
	zl zerolog.Logger
}

// New crea el sink de auditoría. path vacío escribe a stdout; si el archivo
// no se puede abrir, degrada a stdout en lugar de fallar el arranque.
func New(path string) *Logger {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			w = f
		}
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// NewWithWriter crea el sink sobre un writer arbitrario (tests).
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// Emit registra el evento con sus campos. Cualquier fallo de escritura se
// descarta: la auditoría no puede tumbar la operación subyacente.
func (l *Logger) Emit(event string, fields map[string]any) {
	ev := l.zl.Info().Str("event", event)
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Send()
}

// Noop sink deshabilitado (AUDIT_ENABLED=false). Permite probar el núcleo
// sin acoplamiento al entorno.
type Noop struct{}

// Emit descarta el evento.
func (Noop) Emit(string, map[string]any) {}
