//go:build windows

package d3xx

import (
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/ftlab/d3xx/config"
)

// openBySerialNumber is the FT_Create flag selecting open by
// serial number.
const openBySerialNumber = 0x10

var (
	procCreateDeviceInfoList      *syscall.Proc
	procGetDeviceInfoList         *syscall.Proc
	procCreate                    *syscall.Proc
	procClose                     *syscall.Proc
	procReadPipe                  *syscall.Proc
	procWritePipe                 *syscall.Proc
	procAbortPipe                 *syscall.Proc
	procGetPipeTimeout            *syscall.Proc
	procSetPipeTimeout            *syscall.Proc
	procInitializeOverlapped      *syscall.Proc
	procReleaseOverlapped         *syscall.Proc
	procGetOverlappedResult       *syscall.Proc
	procSetNotificationCallback   *syscall.Proc
	procClearNotificationCallback *syscall.Proc
	procEnableGPIO                *syscall.Proc
	procWriteGPIO                 *syscall.Proc
	procReadGPIO                  *syscall.Proc
	procSetGPIOPull               *syscall.Proc
	procGetDeviceDescriptor       *syscall.Proc
	procGetConfigurationDesc      *syscall.Proc
	procGetInterfaceDescriptor    *syscall.Proc
	procGetStringDescriptor       *syscall.Proc
	procGetPipeInformation        *syscall.Proc
	procGetChipConfiguration      *syscall.Proc
	procGetVIDPID                 *syscall.Proc
	procGetLibraryVersion         *syscall.Proc
	procGetDriverVersion          *syscall.Proc
	procSetStreamPipe             *syscall.Proc
	procClearStreamPipe           *syscall.Proc
)

var d3xxDLL *syscall.DLL

func findProc(name string, target **syscall.Proc) error {
	proc, err := d3xxDLL.FindProc(name)
	if err != nil {
		return errors.Wrapf(err, "d3xx cannot find proc %q", name)
	}
	*target = proc
	return nil
}

func loadProcs(procs map[string]**syscall.Proc) error {
	for name, proc := range procs {
		if err := findProc(name, proc); err != nil {
			return err
		}
	}
	return nil
}

func initD3XX() error {
	dll, err := syscall.LoadDLL("FTD3XX.dll")
	if err != nil {
		return errors.Wrap(err, "d3xx load vendor library")
	}
	d3xxDLL = dll
	return loadProcs(map[string]**syscall.Proc{
		"FT_CreateDeviceInfoList":       &procCreateDeviceInfoList,
		"FT_GetDeviceInfoList":          &procGetDeviceInfoList,
		"FT_Create":                     &procCreate,
		"FT_Close":                      &procClose,
		"FT_ReadPipe":                   &procReadPipe,
		"FT_WritePipe":                  &procWritePipe,
		"FT_AbortPipe":                  &procAbortPipe,
		"FT_GetPipeTimeout":             &procGetPipeTimeout,
		"FT_SetPipeTimeout":             &procSetPipeTimeout,
		"FT_InitializeOverlapped":       &procInitializeOverlapped,
		"FT_ReleaseOverlapped":          &procReleaseOverlapped,
		"FT_GetOverlappedResult":        &procGetOverlappedResult,
		"FT_SetNotificationCallback":    &procSetNotificationCallback,
		"FT_ClearNotificationCallback":  &procClearNotificationCallback,
		"FT_EnableGPIO":                 &procEnableGPIO,
		"FT_WriteGPIO":                  &procWriteGPIO,
		"FT_ReadGPIO":                   &procReadGPIO,
		"FT_SetGPIOPull":                &procSetGPIOPull,
		"FT_GetDeviceDescriptor":        &procGetDeviceDescriptor,
		"FT_GetConfigurationDescriptor": &procGetConfigurationDesc,
		"FT_GetInterfaceDescriptor":     &procGetInterfaceDescriptor,
		"FT_GetStringDescriptor":        &procGetStringDescriptor,
		"FT_GetPipeInformation":         &procGetPipeInformation,
		"FT_GetChipConfiguration":       &procGetChipConfiguration,
		"FT_GetVIDPID":                  &procGetVIDPID,
		"FT_GetLibraryVersion":          &procGetLibraryVersion,
		"FT_GetDriverVersion":           &procGetDriverVersion,
		"FT_SetStreamPipe":              &procSetStreamPipe,
		"FT_ClearStreamPipe":            &procClearStreamPipe,
	})
}

var (
	tryLoadOnce sync.Once
	tryLoadErr  error
)

// tryLoadD3XX attempts to load the vendor DLL. The work is
// done once and the error is persistent.
func tryLoadD3XX() error {
	tryLoadOnce.Do(func() {
		tryLoadErr = initD3XX()
	})
	return tryLoadErr
}

// platformDriver returns the DLL-backed driver boundary.
func platformDriver() (Driver, error) {
	if err := tryLoadD3XX(); err != nil {
		return nil, err
	}
	return dllDriver{}, nil
}

// goNotifyTrampoline holds the Go-side target the native
// notification callback forwards to, as a Trampoline. It is
// written on the registering goroutine and read on the
// driver's thread, so the handoff is atomic.
var goNotifyTrampoline atomic.Value

// nativeNotifyCallback is the single C-callable notification
// entry point handed to the driver.
var nativeNotifyCallback = syscall.NewCallback(func(
	context, kind, info uintptr,
) uintptr {
	if tramp, ok := goNotifyTrampoline.Load().(Trampoline); ok {
		tramp(context, uint32(kind), unsafe.Pointer(info))
	}
	return 0
})

// dllDriver forwards the Driver boundary to the vendor DLL.
// All methods translate the raw return value into a Status and
// nothing else; policy lives above this seam.
type dllDriver struct{}

// bufPointer returns the start of buf as an unsafe.Pointer.
// The conversion to uintptr must stay inline in the Call
// argument list so the buffer remains live across the call.
func bufPointer(buf []byte) unsafe.Pointer {
	if len(buf) == 0 {
		return nil
	}
	return unsafe.Pointer(&buf[0])
}

func (dllDriver) CreateDeviceInfoList() (uint32, Status) {
	var count uint32
	r1, _, _ := procCreateDeviceInfoList.Call(
		uintptr(unsafe.Pointer(&count)))
	return count, Status(r1)
}

func (dllDriver) GetDeviceInfoList(nodes []RawDeviceListNode) (uint32, Status) {
	var actual uint32
	var nodesPtr unsafe.Pointer
	if len(nodes) > 0 {
		nodesPtr = unsafe.Pointer(&nodes[0])
	}
	r1, _, _ := procGetDeviceInfoList.Call(
		uintptr(nodesPtr), uintptr(unsafe.Pointer(&actual)))
	runtime.KeepAlive(nodes)
	return actual, Status(r1)
}

func (dllDriver) Create(serial string) (uintptr, Status) {
	serialBytes := append([]byte(serial), 0)
	var handle uintptr
	r1, _, _ := procCreate.Call(
		uintptr(unsafe.Pointer(&serialBytes[0])),
		openBySerialNumber,
		uintptr(unsafe.Pointer(&handle)),
	)
	runtime.KeepAlive(serialBytes)
	return handle, Status(r1)
}

func (dllDriver) Close(handle uintptr) Status {
	r1, _, _ := procClose.Call(handle)
	return Status(r1)
}

func (dllDriver) ReadPipe(handle uintptr, pipe uint8, buf []byte, transferred *uint32, overlapped uintptr) Status {
	r1, _, _ := procReadPipe.Call(
		handle, uintptr(pipe), uintptr(bufPointer(buf)), uintptr(len(buf)),
		uintptr(unsafe.Pointer(transferred)), overlapped,
	)
	// On the overlapped path the driver retains the buffer
	// address past this call; the Transfer above this seam
	// keeps the buffer reachable until the record is released.
	runtime.KeepAlive(buf)
	return Status(r1)
}

func (dllDriver) WritePipe(handle uintptr, pipe uint8, buf []byte, transferred *uint32, overlapped uintptr) Status {
	r1, _, _ := procWritePipe.Call(
		handle, uintptr(pipe), uintptr(bufPointer(buf)), uintptr(len(buf)),
		uintptr(unsafe.Pointer(transferred)), overlapped,
	)
	runtime.KeepAlive(buf)
	return Status(r1)
}

func (dllDriver) AbortPipe(handle uintptr, pipe uint8) Status {
	r1, _, _ := procAbortPipe.Call(handle, uintptr(pipe))
	return Status(r1)
}

func (dllDriver) GetPipeTimeout(handle uintptr, pipe uint8, millis *uint32) Status {
	r1, _, _ := procGetPipeTimeout.Call(
		handle, uintptr(pipe), uintptr(unsafe.Pointer(millis)))
	return Status(r1)
}

func (dllDriver) SetPipeTimeout(handle uintptr, pipe uint8, millis uint32) Status {
	r1, _, _ := procSetPipeTimeout.Call(
		handle, uintptr(pipe), uintptr(millis))
	return Status(r1)
}

// overlappedRecords keeps completion records reachable while
// the driver may still write into them. Keyed by the record
// address, which doubles as the opaque token.
var overlappedRecords sync.Map

func (dllDriver) InitializeOverlapped(handle uintptr) (uintptr, Status) {
	record := new(windows.Overlapped)
	token := uintptr(unsafe.Pointer(record))
	r1, _, _ := procInitializeOverlapped.Call(handle, token)
	status := Status(r1)
	if status == StatusSuccess {
		overlappedRecords.Store(token, record)
	}
	return token, status
}

func (dllDriver) ReleaseOverlapped(handle, overlapped uintptr) Status {
	r1, _, _ := procReleaseOverlapped.Call(handle, overlapped)
	overlappedRecords.Delete(overlapped)
	return Status(r1)
}

func (dllDriver) GetOverlappedResult(handle, overlapped uintptr, transferred *uint32, wait bool) Status {
	var waitVal uintptr
	if wait {
		waitVal = 1
	}
	r1, _, _ := procGetOverlappedResult.Call(
		handle, overlapped,
		uintptr(unsafe.Pointer(transferred)), waitVal,
	)
	return Status(r1)
}

func (dllDriver) SetNotificationCallback(handle uintptr, trampoline Trampoline, context uintptr) Status {
	goNotifyTrampoline.Store(trampoline)
	r1, _, _ := procSetNotificationCallback.Call(
		handle, nativeNotifyCallback, context)
	return Status(r1)
}

func (dllDriver) ClearNotificationCallback(handle uintptr) {
	_, _, _ = procClearNotificationCallback.Call(handle)
}

func (dllDriver) EnableGPIO(handle uintptr, mask, direction uint32) Status {
	r1, _, _ := procEnableGPIO.Call(
		handle, uintptr(mask), uintptr(direction))
	return Status(r1)
}

func (dllDriver) WriteGPIO(handle uintptr, mask, value uint32) Status {
	r1, _, _ := procWriteGPIO.Call(
		handle, uintptr(mask), uintptr(value))
	return Status(r1)
}

func (dllDriver) ReadGPIO(handle uintptr, value *uint32) Status {
	r1, _, _ := procReadGPIO.Call(
		handle, uintptr(unsafe.Pointer(value)))
	return Status(r1)
}

func (dllDriver) SetGPIOPull(handle uintptr, mask, pull uint32) Status {
	r1, _, _ := procSetGPIOPull.Call(
		handle, uintptr(mask), uintptr(pull))
	return Status(r1)
}

func (dllDriver) GetDeviceDescriptor(handle uintptr, desc *RawDeviceDescriptor) Status {
	r1, _, _ := procGetDeviceDescriptor.Call(
		handle, uintptr(unsafe.Pointer(desc)))
	return Status(r1)
}

func (dllDriver) GetConfigurationDescriptor(handle uintptr, desc *RawConfigurationDescriptor) Status {
	r1, _, _ := procGetConfigurationDesc.Call(
		handle, uintptr(unsafe.Pointer(desc)))
	return Status(r1)
}

func (dllDriver) GetInterfaceDescriptor(handle uintptr, index uint8, desc *RawInterfaceDescriptor) Status {
	r1, _, _ := procGetInterfaceDescriptor.Call(
		handle, uintptr(index), uintptr(unsafe.Pointer(desc)))
	return Status(r1)
}

func (dllDriver) GetStringDescriptor(handle uintptr, index uint8, desc *RawStringDescriptor) Status {
	r1, _, _ := procGetStringDescriptor.Call(
		handle, uintptr(index), uintptr(unsafe.Pointer(desc)))
	return Status(r1)
}

func (dllDriver) GetPipeInformation(handle uintptr, interfaceIndex, pipe uint8, info *RawPipeInformation) Status {
	r1, _, _ := procGetPipeInformation.Call(
		handle, uintptr(interfaceIndex), uintptr(pipe),
		uintptr(unsafe.Pointer(info)),
	)
	return Status(r1)
}

func (dllDriver) GetChipConfiguration(handle uintptr, raw *config.Raw) Status {
	r1, _, _ := procGetChipConfiguration.Call(
		handle, uintptr(unsafe.Pointer(raw)))
	return Status(r1)
}

func (dllDriver) GetVIDPID(handle uintptr, vid, pid *uint16) Status {
	r1, _, _ := procGetVIDPID.Call(
		handle,
		uintptr(unsafe.Pointer(vid)),
		uintptr(unsafe.Pointer(pid)),
	)
	return Status(r1)
}

func (dllDriver) GetLibraryVersion(version *uint32) Status {
	r1, _, _ := procGetLibraryVersion.Call(
		uintptr(unsafe.Pointer(version)))
	return Status(r1)
}

func (dllDriver) GetDriverVersion(handle uintptr, version *uint32) Status {
	r1, _, _ := procGetDriverVersion.Call(
		handle, uintptr(unsafe.Pointer(version)))
	return Status(r1)
}

func boolArg(value bool) uintptr {
	if value {
		return 1
	}
	return 0
}

func (dllDriver) SetStreamPipe(handle uintptr, allWritePipes, allReadPipes bool, pipe uint8, streamSize uint32) Status {
	r1, _, _ := procSetStreamPipe.Call(
		handle, boolArg(allWritePipes), boolArg(allReadPipes),
		uintptr(pipe), uintptr(streamSize),
	)
	return Status(r1)
}

func (dllDriver) ClearStreamPipe(handle uintptr, allWritePipes, allReadPipes bool, pipe uint8) Status {
	r1, _, _ := procClearStreamPipe.Call(
		handle, boolArg(allWritePipes), boolArg(allReadPipes),
		uintptr(pipe),
	)
	return Status(r1)
}
