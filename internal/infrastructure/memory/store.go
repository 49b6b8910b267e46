// Package memory implementa los repositorios en memoria (desarrollo local y tests).
// Cada documento se copia al guardar y al leer para que los llamadores no compartan estado.
package memory

import (
	"slices"
	"sync"

	"github.com/jhoicas/wareflow-api/internal/domain/entity"
)

// Store contenedor en memoria protegido por un único mutex, equivalente a una base documental
// con lectura-modificación-escritura atómica por documento.
type Store struct {
	mu              sync.RWMutex
	products        map[string]*entity.Product // por ID
	productIDByCode map[string]string
	movements       map[string]*entity.InventoryMovement
	sales           map[string]*entity.SalesOrder
	purchases       map[string]*entity.PurchaseOrder
	returns         map[string]*entity.Return
	receipts        map[string]*entity.GoodsReceipt
	users           map[string]*entity.User
	order           map[string][]string // orden de inserción por colección, para listados estables
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products:        make(map[string]*entity.Product),
		productIDByCode: make(map[string]string),
		movements:       make(map[string]*entity.InventoryMovement),
		sales:           make(map[string]*entity.SalesOrder),
		purchases:       make(map[string]*entity.PurchaseOrder),
		returns:         make(map[string]*entity.Return),
		receipts:        make(map[string]*entity.GoodsReceipt),
		users:           make(map[string]*entity.User),
		order:           make(map[string][]string),
	}
}

func (s *Store) track(collection, id string) {
	s.order[collection] = append(s.order[collection], id)
}

func (s *Store) untrack(collection, id string) {
	s.order[collection] = slices.DeleteFunc(s.order[collection], func(v string) bool { return v == id })
}

// page devuelve los IDs de collection dentro de [offset, offset+limit). limit <= 0 significa sin límite.
func (s *Store) page(collection string, keep func(id string) bool, limit, offset int) []string {
	var ids []string
	for _, id := range s.order[collection] {
		if keep == nil || keep(id) {
			ids = append(ids, id)
		}
	}
	if offset > len(ids) {
		return nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	return ids
}
