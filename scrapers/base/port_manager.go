package base

import (
	"fmt"
	"sync"
)

// PortManager hands out chromedriver ports so concurrent site runs using the
// selenium engine never share a driver service.
type PortManager struct {
	basePort  int
	portRange int
	inUse     map[int]bool
	mutex     sync.Mutex
}

// NewPortManager creates a new port manager with the specified base port and range
func NewPortManager(basePort, portRange int) *PortManager {
	inUse := make(map[int]bool, portRange)
	for i := 0; i < portRange; i++ {
		inUse[basePort+i] = false
	}

	return &PortManager{
		basePort:  basePort,
		portRange: portRange,
		inUse:     inUse,
	}
}

// GetPort reserves the lowest free port.
func (pm *PortManager) GetPort() (int, error) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for i := 0; i < pm.portRange; i++ {
		port := pm.basePort + i
		if !pm.inUse[port] {
			pm.inUse[port] = true
			return port, nil
		}
	}

	return 0, fmt.Errorf("no available ports in range %d-%d", pm.basePort, pm.basePort+pm.portRange-1)
}

// ReleasePort returns port to the pool.
func (pm *PortManager) ReleasePort(port int) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if _, ok := pm.inUse[port]; ok {
		pm.inUse[port] = false
	}
}
