//go:build integration

package integration

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/trymirror/scanflow/internal/domain"
	"github.com/trymirror/scanflow/internal/infra"
	"github.com/trymirror/scanflow/internal/scan"
)

var _ = Describe("Acquisition Workflow", func() {
	var (
		tmpDir     string
		spoolDir   string
		galleryDir string
		logger     *zap.Logger
		controller *scan.Controller
		cancel     context.CancelFunc
		done       chan error
	)

	lockPath := func() string {
		return filepath.Join(spoolDir, ".scanflow.lock")
	}

	dropPayload := func(name, payload string) {
		err := os.WriteFile(filepath.Join(spoolDir, name), []byte(payload+"\n"), 0600)
		Expect(err).NotTo(HaveOccurred())
	}

	startWorkflow := func(state domain.PermissionState) {
		pm := infra.NewProcessManager()
		device := infra.NewSpoolDevice(spoolDir, pm, logger)
		gate := scan.NewPermissionGate(&infra.StaticPermissionRequester{State: state}, logger)
		session := scan.NewSession(device, logger)
		picker := infra.NewDirGalleryPicker(galleryDir)
		controller = scan.NewController(gate, session, picker, logger)

		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		done = make(chan error, 1)
		go func() { done <- controller.Run(ctx) }()
	}

	statusKind := func() domain.StatusKind {
		return controller.Status().Kind
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "scanflow-integration-*")
		Expect(err).NotTo(HaveOccurred())

		spoolDir = filepath.Join(tmpDir, "spool")
		galleryDir = filepath.Join(tmpDir, "gallery")
		Expect(os.MkdirAll(galleryDir, 0700)).To(Succeed())

		logger = zap.NewNop()
	})

	AfterEach(func() {
		if cancel != nil {
			cancel()
		}
		if controller != nil {
			controller.Close()
		}
		if done != nil {
			Eventually(done, 3*time.Second).Should(Receive())
		}
		os.RemoveAll(tmpDir)
	})

	Describe("permission handling", func() {
		Context("when camera access is denied", func() {
			It("surfaces a deny-specific message and never acquires the device", func() {
				startWorkflow(domain.PermissionDenied)

				Eventually(statusKind, 2*time.Second).Should(Equal(domain.StatusPermissionDenied))
				Expect(controller.Status().Message()).To(ContainSubstring("denied"))

				_, err := os.Stat(lockPath())
				Expect(os.IsNotExist(err)).To(BeTrue())
			})
		})

		Context("when camera access is granted", func() {
			It("reports active scanning and holds the device lock", func() {
				startWorkflow(domain.PermissionGranted)

				Eventually(statusKind, 2*time.Second).Should(Equal(domain.StatusActive))
				Expect(controller.Status().Message()).To(ContainSubstring("Scanning"))

				_, err := os.Stat(lockPath())
				Expect(err).NotTo(HaveOccurred())
			})
		})
	})

	Describe("payload detection", func() {
		BeforeEach(func() {
			startWorkflow(domain.PermissionGranted)
			Eventually(statusKind, 2*time.Second).Should(Equal(domain.StatusActive))
		})

		It("embeds a URL payload in the status text", func() {
			dropPayload("code-1.txt", "https://example.com")

			Eventually(statusKind, 3*time.Second).Should(Equal(domain.StatusDetected))
			s := controller.Status()
			Expect(s.Classification).To(Equal(domain.ClassificationURL))
			Expect(s.Message()).To(ContainSubstring("https://example.com"))
		})

		It("embeds raw content for plain-text payloads", func() {
			dropPayload("code-1.txt", "order#1234")

			Eventually(statusKind, 3*time.Second).Should(Equal(domain.StatusDetected))
			s := controller.Status()
			Expect(s.Classification).To(Equal(domain.ClassificationPlainText))
			Expect(s.Message()).To(ContainSubstring("order#1234"))
		})

		It("re-emits a Detected status for repeated identical codes", func() {
			updates := controller.Updates()

			dropPayload("code-1.txt", "same-code")
			var first domain.ScanStatus
			Eventually(updates, 3*time.Second).Should(Receive(&first))
			for first.Kind != domain.StatusDetected {
				Eventually(updates, 3*time.Second).Should(Receive(&first))
			}

			dropPayload("code-2.txt", "same-code")
			var second domain.ScanStatus
			Eventually(updates, 3*time.Second).Should(Receive(&second))
			Expect(second.Kind).To(Equal(domain.StatusDetected))
			Expect(second.Payload).To(Equal(first.Payload))
		})
	})

	Describe("gallery fallback", func() {
		BeforeEach(func() {
			startWorkflow(domain.PermissionGranted)
			Eventually(statusKind, 2*time.Second).Should(Equal(domain.StatusActive))
		})

		It("moves to ImageProcessing without releasing the device", func() {
			err := os.WriteFile(filepath.Join(galleryDir, "shirt.png"), []byte("img"), 0600)
			Expect(err).NotTo(HaveOccurred())

			Expect(controller.PickFromGallery(context.Background())).To(Succeed())

			Expect(statusKind()).To(Equal(domain.StatusImageProcessing))
			Expect(controller.Status().Message()).To(ContainSubstring("Processing image"))

			_, err = os.Stat(lockPath())
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps the current status when the gallery is empty", func() {
			Expect(controller.PickFromGallery(context.Background())).To(Succeed())
			Expect(statusKind()).To(Equal(domain.StatusActive))
		})
	})

	Describe("device contention", func() {
		It("reports Unavailable when another session holds the device", func() {
			pm := infra.NewProcessManager()
			holder := infra.NewSpoolDevice(spoolDir, pm, logger)
			Expect(holder.Acquire(context.Background())).To(Succeed())
			defer holder.Release()

			startWorkflow(domain.PermissionGranted)

			Eventually(statusKind, 2*time.Second).Should(Equal(domain.StatusUnavailable))
			Expect(controller.Status().Message()).To(ContainSubstring("unavailable"))
		})
	})
})
